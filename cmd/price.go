package cmd

import (
	"context"
	"fmt"
	"log"

	"github.com/spf13/cobra"

	"github.com/avakit/swapcore/core/config"
	"github.com/avakit/swapcore/core/swap"
	"github.com/avakit/swapcore/core/telemetry"
	"github.com/avakit/swapcore/core/transport"
)

var (
	priceFromToken string
	priceToToken   string
	priceAmount    string
	priceNetwork   string
	priceTaker     string

	priceCmd = &cobra.Command{
		Use:   "price",
		Short: "get a swap price estimate",
		Long:  `Fetch a non-binding price estimate for swapping one token for another. Nothing is executed.`,
		Run: func(cmd *cobra.Command, args []string) {
			cfg, err := config.NewConfig(configPath)
			if err != nil {
				log.Fatalf("cannot load config: %v", err)
			}

			client := transport.NewRestClient(cfg.APIBaseURL, cfg.AuthKey, cfg.Logger)
			reporter := telemetry.NewReporter(cfg.TelemetryEnabled, client, cfg.Logger)
			service := swap.NewService(client, cfg.Logger, nil, reporter)

			network := priceNetwork
			if network == "" {
				network = cfg.Network
			}

			estimate, err := service.GetPrice(context.Background(), swap.PriceRequest{
				FromToken:  priceFromToken,
				ToToken:    priceToToken,
				FromAmount: priceAmount,
				Network:    network,
				Taker:      priceTaker,
			})
			if err != nil {
				log.Fatalf("cannot get price: %v", err)
			}

			fmt.Printf("quote id:    %s\n", estimate.QuoteID)
			fmt.Printf("from:        %s (%s)\n", estimate.FromToken, estimate.FromAmount)
			fmt.Printf("to:          %s (%s)\n", estimate.ToToken, estimate.ToAmount)
			fmt.Printf("price ratio: %s\n", estimate.PriceRatio)
			fmt.Printf("expires at:  %s\n", estimate.ExpiresAt.Format("2006-01-02 15:04:05 MST"))
		},
	}
)

func init() {
	priceCmd.Flags().StringVar(&priceFromToken, "from-token", "", "contract address of the token to swap from")
	priceCmd.Flags().StringVar(&priceToToken, "to-token", "", "contract address of the token to swap to")
	priceCmd.Flags().StringVar(&priceAmount, "amount", "", "amount to swap, in the token's smallest unit")
	priceCmd.Flags().StringVar(&priceNetwork, "network", "", "network to quote on (default from config)")
	priceCmd.Flags().StringVar(&priceTaker, "taker", "", "address that would execute the swap")

	priceCmd.MarkFlagRequired("from-token")
	priceCmd.MarkFlagRequired("to-token")
	priceCmd.MarkFlagRequired("amount")
	priceCmd.MarkFlagRequired("taker")

	rootCmd.AddCommand(priceCmd)
}
