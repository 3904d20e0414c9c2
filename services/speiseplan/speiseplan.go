package speiseplan

import (
	"bytes"
	"context"
	"encoding/xml"
	"fmt"
	"mensa-go-worker/enums"
	"mensa-go-worker/models"
	"strconv"
	"strings"
	"sync"

	"golang.org/x/net/html/charset"
)

// ParseError reports a feed document that could not be turned into meals.
type ParseError struct {
	Err error
}

func (e *ParseError) Error() string {
	return "parse speiseplan: " + e.Err.Error()
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

type document struct {
	XMLName xml.Name `xml:"speiseplan"`
	Essen   []essen  `xml:"essen"`
}

type essen struct {
	ID          string  `xml:"id,attr"`
	Kategorie   string  `xml:"kategorie,attr"`
	Schwein     string  `xml:"schwein,attr"`
	Alkohol     string  `xml:"alkohol,attr"`
	Rind        string  `xml:"rind,attr"`
	Vegetarisch string  `xml:"vegetarisch,attr"`
	Deutsch     string  `xml:"deutsch"`
	Preise      []Price `xml:"pr"`
	ImgSmall    string  `xml:"img_small"`
	ImgBig      string  `xml:"img_big"`
}

// Price is one <pr gruppe="..."> entry of a meal.
type Price struct {
	Group string `xml:"gruppe,attr"`
	Value string `xml:",chardata"`
}

// PriceGroup maps a group label to its price. The all-sizes price sits under
// the empty label.
type PriceGroup map[string]float64

// ImageFetcher downloads image payloads referenced by a plan.
type ImageFetcher interface {
	FetchImage(ctx context.Context, url string) ([]byte, error)
}

// Parser turns feed documents into meal records. With a nil Images fetcher,
// image URLs are kept but never downloaded.
type Parser struct {
	Images ImageFetcher
}

// ParseBool is true only for the exact literal "true".
func ParseBool(s string) bool {
	return s == "true"
}

// ParsePrices reduces the price entries of a meal into a PriceGroup. Labels are
// not validated; a later entry with the same label wins. An entry without text
// leaves its group absent.
func ParsePrices(prices []Price) (PriceGroup, error) {
	group := make(PriceGroup, len(prices))
	for _, p := range prices {
		raw := strings.Replace(strings.TrimSpace(p.Value), ",", ".", 1)
		if raw == "" {
			continue
		}
		value, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return nil, fmt.Errorf("price group %q: %w", p.Group, err)
		}
		group[strings.TrimSpace(p.Group)] = value
	}
	return group, nil
}

// Parse decodes one feed document. A document without any essen element is a
// valid, empty plan. Only undecodable XML is a ParseError; an essen with a bad
// id or price comes back with Invalid set so that just its insert fails.
func (p *Parser) Parse(ctx context.Context, raw []byte) ([]models.Meal, error) {
	var doc document
	decoder := xml.NewDecoder(bytes.NewReader(raw))
	decoder.CharsetReader = charset.NewReaderLabel
	if err := decoder.Decode(&doc); err != nil {
		return nil, &ParseError{Err: err}
	}

	meals := make([]models.Meal, 0, len(doc.Essen))
	for _, e := range doc.Essen {
		meals = append(meals, toMeal(e))
	}

	if p.Images != nil {
		if err := p.attachImages(ctx, meals); err != nil {
			return nil, err
		}
	}
	return meals, nil
}

func toMeal(e essen) models.Meal {
	meal := models.Meal{
		German:      strings.TrimSpace(e.Deutsch),
		Category:    e.Kategorie,
		Pig:         ParseBool(e.Schwein),
		Alcohol:     ParseBool(e.Alkohol),
		Vegetarian:  ParseBool(e.Vegetarisch),
		Beef:        ParseBool(e.Rind),
		ImgSmallURL: optional(e.ImgSmall),
		ImgBigURL:   optional(e.ImgBig),
	}

	id, err := strconv.ParseInt(strings.TrimSpace(e.ID), 10, 64)
	if err != nil {
		meal.Invalid = fmt.Errorf("essen id %q: %w", e.ID, err)
		return meal
	}
	meal.ID = id

	prices, err := ParsePrices(e.Preise)
	if err != nil {
		meal.Invalid = fmt.Errorf("essen %d: %w", id, err)
		return meal
	}
	meal.PriceS = prices.get(enums.PriceGroupSmall)
	meal.PriceM = prices.get(enums.PriceGroupMedium)
	meal.PriceG = prices.get(enums.PriceGroupLarge)
	meal.PriceAll = prices.get(enums.PriceGroupAll)
	return meal
}

func (g PriceGroup) get(label string) *float64 {
	v, ok := g[label]
	if !ok {
		return nil
	}
	return &v
}

func optional(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}

// attachImages downloads every referenced image concurrently and waits for all
// of them. The first failure is returned.
func (p *Parser) attachImages(ctx context.Context, meals []models.Meal) error {
	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		firstErr error
	)
	fetch := func(url *string, dst *[]byte) {
		if url == nil {
			return
		}
		wg.Add(1)
		go func() {
			defer wg.Done()
			data, err := p.Images.FetchImage(ctx, *url)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				if firstErr == nil {
					firstErr = err
				}
				return
			}
			*dst = data
		}()
	}
	for i := range meals {
		fetch(meals[i].ImgSmallURL, &meals[i].ImgSmallData)
		fetch(meals[i].ImgBigURL, &meals[i].ImgBigData)
	}
	wg.Wait()
	return firstErr
}
