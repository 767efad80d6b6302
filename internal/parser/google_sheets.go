package parser

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/Omer-fixz/resturant/internal/domain"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"
)

type GoogleSheetsParser struct {
	service *sheets.Service
}

type Config struct {
	CredentialsJSON []byte
}

func New(cfg Config) (*GoogleSheetsParser, error) {
	ctx := context.Background()

	service, err := sheets.NewService(ctx, option.WithCredentialsJSON(cfg.CredentialsJSON))
	if err != nil {
		return nil, fmt.Errorf("failed to create sheets service: %w", err)
	}

	return &GoogleSheetsParser{
		service: service,
	}, nil
}

// ParseMeals reads a spreadsheet in the format
// name | price | description, with single-cell category rows in between,
// and returns the meals for the restaurant.
func (p *GoogleSheetsParser) ParseMeals(ctx context.Context, spreadsheetID, restaurantID string) ([]domain.Meal, error) {
	readRange := "A:C"
	resp, err := p.service.Spreadsheets.Values.Get(spreadsheetID, readRange).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("failed to read spreadsheet: %w", err)
	}

	if len(resp.Values) == 0 {
		return nil, fmt.Errorf("no data found in spreadsheet")
	}

	return MealsFromRows(resp.Values, restaurantID), nil
}

// MealsFromRows converts raw sheet rows into meals. The first row is a
// header and skipped; rows with an empty name or an unparsable price are
// skipped rather than failing the whole import.
func MealsFromRows(rows [][]interface{}, restaurantID string) []domain.Meal {
	meals := []domain.Meal{}
	currentCategory := ""

	for i := 1; i < len(rows); i++ {
		row := rows[i]
		if len(row) == 0 {
			continue
		}

		// single-cell rows are category headers
		if len(row) == 1 || (row[0] != "" && fmt.Sprintf("%v", row[1]) == "") {
			currentCategory = fmt.Sprintf("%v", row[0])
			continue
		}

		name := strings.TrimSpace(fmt.Sprintf("%v", row[0]))
		if name == "" {
			continue
		}

		price, err := strconv.ParseFloat(strings.TrimSpace(fmt.Sprintf("%v", row[1])), 64)
		if err != nil || price < 0 {
			continue
		}

		meal := domain.Meal{
			RestaurantID: restaurantID,
			Name:         name,
			Price:        price,
			Category:     currentCategory,
			Available:    true,
		}

		if len(row) > 2 {
			meal.Description = strings.TrimSpace(fmt.Sprintf("%v", row[2]))
		}

		meals = append(meals, meal)
	}

	return meals
}
