//go:build ignore
// +build ignore

package main

import (
	"fmt"
	"os"

	"gitlab.com/yelinaung/fxrates/internal/bot"
	"gitlab.com/yelinaung/fxrates/internal/converter"
	"gitlab.com/yelinaung/fxrates/internal/models"
)

func main() {
	engine := converter.New("USD")
	engine.UpdateRates([]models.Rate{
		{Currency: "AUD", Rate: 1.52},
		{Currency: "EUR", Rate: 0.92},
		{Currency: "GBP", Rate: 0.79},
		{Currency: "JPY", Rate: 151.3},
		{Currency: "SGD", Rate: 1.35},
		{Currency: "USD", Rate: 1},
	})

	chartData, err := bot.GenerateConversionChart(engine.ConvertToAll("USD", 100), "USD", 100, bot.DefaultChartSize)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if err := os.WriteFile("graph.png", chartData, 0600); err != nil {
		fmt.Fprintf(os.Stderr, "Error writing file: %v\n", err)
		os.Exit(1)
	}

	fmt.Println("✓ Created graph.png - Example conversion chart")
}
