package cmd

import (
	"context"
	"fmt"
	"log"

	"github.com/spf13/cobra"

	"github.com/avakit/swapcore/core/config"
	"github.com/avakit/swapcore/core/signer"
	"github.com/avakit/swapcore/core/swap"
	"github.com/avakit/swapcore/core/telemetry"
	"github.com/avakit/swapcore/core/transport"
	"github.com/avakit/swapcore/core/useroperation"
	"github.com/avakit/swapcore/model"
)

var (
	swapFromToken    string
	swapToToken      string
	swapAmount       string
	swapNetwork      string
	swapAccount      string
	swapOwner        string
	swapSlippageBps  int
	swapIdempotency  string
	swapSmartAccount bool
	swapWait         bool

	swapCmd = &cobra.Command{
		Use:   "swap",
		Short: "execute a token swap",
		Long: `Quote and execute a swap in one go.

With --smart-account the swap goes through the contract wallet at --account
as a batched user operation signed by --owner; otherwise --account is a
plain account and the swap is a direct transaction.`,
		Run: func(cmd *cobra.Command, args []string) {
			cfg, err := config.NewConfig(configPath)
			if err != nil {
				log.Fatalf("cannot load config: %v", err)
			}

			client := transport.NewRestClient(cfg.APIBaseURL, cfg.AuthKey, cfg.Logger)
			reporter := telemetry.NewReporter(cfg.TelemetryEnabled, client, cfg.Logger)
			service := swap.NewService(client, cfg.Logger, nil, reporter)
			remoteSigner := signer.NewRemoteSigner(client)

			network := swapNetwork
			if network == "" {
				network = cfg.Network
			}

			accountAddr, err := model.ParseAddress(swapAccount)
			if err != nil {
				log.Fatalf("bad --account: %v", err)
			}

			slippage := swapSlippageBps
			options := swap.SwapOptions{
				Inline: &swap.InlineSwapParams{
					FromToken:   swapFromToken,
					ToToken:     swapToToken,
					FromAmount:  swapAmount,
					Network:     network,
					SlippageBps: &slippage,
				},
				IdempotencyKey: swapIdempotency,
			}

			ctx := context.Background()

			if !swapSmartAccount {
				options.Inline.Taker = accountAddr.Hex()
				strategy := swap.NewEOAStrategy(service, remoteSigner, model.Account{Address: accountAddr}, cfg.Logger)

				result, err := strategy.Execute(ctx, options)
				if err != nil {
					log.Fatalf("swap failed: %v", err)
				}

				fmt.Printf("transaction hash: %s\n", result.TransactionHash)
				return
			}

			ownerAddr, err := model.ParseAddress(swapOwner)
			if err != nil {
				log.Fatalf("bad --owner: %v", err)
			}

			smartAccount := &model.SmartAccount{
				Address: accountAddr,
				Owners:  []model.Account{{Address: ownerAddr}},
			}

			ops := useroperation.NewClient(client, remoteSigner)
			strategy := swap.NewSmartAccountStrategy(service, remoteSigner, ops, smartAccount, cfg.PaymasterURL, cfg.Logger)

			result, err := strategy.Execute(ctx, options)
			if err != nil {
				log.Fatalf("swap failed: %v", err)
			}

			fmt.Printf("user operation hash: %s\n", result.UserOpHash)
			fmt.Printf("status:              %s\n", result.Status)

			if swapWait {
				final, err := service.WaitForUserOperation(ctx, ops, accountAddr, result.UserOpHash, swap.WaitOptions{})
				if err != nil {
					log.Fatalf("wait failed: %v", err)
				}
				fmt.Printf("final status:        %s\n", final.Status)
				if final.TransactionHash != "" {
					fmt.Printf("transaction hash:    %s\n", final.TransactionHash)
				}
			}
		},
	}
)

func init() {
	swapCmd.Flags().StringVar(&swapFromToken, "from-token", "", "contract address of the token to swap from")
	swapCmd.Flags().StringVar(&swapToToken, "to-token", "", "contract address of the token to swap to")
	swapCmd.Flags().StringVar(&swapAmount, "amount", "", "amount to swap, in the token's smallest unit")
	swapCmd.Flags().StringVar(&swapNetwork, "network", "", "network to execute on (default from config)")
	swapCmd.Flags().StringVar(&swapAccount, "account", "", "account executing the swap")
	swapCmd.Flags().StringVar(&swapOwner, "owner", "", "owner of the smart account (with --smart-account)")
	swapCmd.Flags().IntVar(&swapSlippageBps, "slippage-bps", swap.DefaultSlippageBps, "maximum slippage in basis points")
	swapCmd.Flags().StringVar(&swapIdempotency, "idempotency-key", "", "base idempotency key; retries with the same key are safe")
	swapCmd.Flags().BoolVar(&swapSmartAccount, "smart-account", false, "execute through a smart account user operation")
	swapCmd.Flags().BoolVar(&swapWait, "wait", false, "wait for the user operation to reach a terminal status")

	swapCmd.MarkFlagRequired("from-token")
	swapCmd.MarkFlagRequired("to-token")
	swapCmd.MarkFlagRequired("amount")
	swapCmd.MarkFlagRequired("account")

	rootCmd.AddCommand(swapCmd)
}
