// Command swapquote prices a single constant-product swap offline from
// reserves given on the command line.
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/ethereum/go-ethereum/common"
	"github.com/spf13/cobra"

	"github.com/eliobricenov/uniswap-swapper/pkg/uniswapv2"
)

type options struct {
	reserveIn   string
	reserveOut  string
	amount      string
	exactOutput bool
	slippageBps int64
	decimalsIn  uint8
	decimalsOut uint8
	symbolIn    string
	symbolOut   string
}

func main() {
	if err := newRootCmd(os.Stdout).Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd(out io.Writer) *cobra.Command {
	var opts options
	cmd := &cobra.Command{
		Use:           "swapquote",
		Short:         "Quote a Uniswap V2 swap against the given reserves",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(out, opts)
		},
	}
	f := cmd.Flags()
	f.StringVar(&opts.reserveIn, "reserve-in", "", "reserve of the input token, in whole units")
	f.StringVar(&opts.reserveOut, "reserve-out", "", "reserve of the output token, in whole units")
	f.StringVar(&opts.amount, "amount", "", "amount to sell, or to buy with --exact-output")
	f.BoolVar(&opts.exactOutput, "exact-output", false, "treat --amount as the exact amount received")
	f.Int64Var(&opts.slippageBps, "slippage-bps", 50, "slippage tolerance in basis points")
	f.Uint8Var(&opts.decimalsIn, "decimals-in", 18, "decimals of the input token")
	f.Uint8Var(&opts.decimalsOut, "decimals-out", 18, "decimals of the output token")
	f.StringVar(&opts.symbolIn, "symbol-in", "IN", "symbol of the input token")
	f.StringVar(&opts.symbolOut, "symbol-out", "OUT", "symbol of the output token")
	_ = cmd.MarkFlagRequired("reserve-in")
	_ = cmd.MarkFlagRequired("reserve-out")
	_ = cmd.MarkFlagRequired("amount")
	return cmd
}

func run(out io.Writer, opts options) error {
	in := uniswapv2.NewAsset(1, common.HexToAddress("0x01"), opts.symbolIn, opts.decimalsIn)
	outAsset := uniswapv2.NewAsset(1, common.HexToAddress("0x02"), opts.symbolOut, opts.decimalsOut)

	rIn, err := uniswapv2.ParseTokenAmount(in, opts.reserveIn)
	if err != nil {
		return fmt.Errorf("reserve-in: %w", err)
	}
	rOut, err := uniswapv2.ParseTokenAmount(outAsset, opts.reserveOut)
	if err != nil {
		return fmt.Errorf("reserve-out: %w", err)
	}
	pair, err := uniswapv2.NewPair(rIn, rOut)
	if err != nil {
		return err
	}
	route, err := uniswapv2.NewRoute([]*uniswapv2.Pair{pair}, in)
	if err != nil {
		return err
	}

	tradeType, amountAsset := uniswapv2.ExactInput, in
	if opts.exactOutput {
		tradeType, amountAsset = uniswapv2.ExactOutput, outAsset
	}
	amount, err := uniswapv2.ParseTokenAmount(amountAsset, opts.amount)
	if err != nil {
		return fmt.Errorf("amount: %w", err)
	}

	trade, err := uniswapv2.Quote(route, tradeType, amount.Raw)
	if err != nil {
		return err
	}
	bounds, err := uniswapv2.AdjustedAmounts(trade, opts.slippageBps)
	if err != nil {
		return err
	}
	fees := uniswapv2.Decompose(trade)
	stats := uniswapv2.Stats(trade, fees, bounds)

	fmt.Fprintf(out, "type:            %s\n", trade.Type)
	fmt.Fprintf(out, "amount in:       %s %s\n", trade.InputAmount.ToSignificant(uniswapv2.AmountSignificantDigits), in.Symbol)
	fmt.Fprintf(out, "amount out:      %s %s\n", trade.OutputAmount.ToSignificant(uniswapv2.AmountSignificantDigits), outAsset.Symbol)
	fmt.Fprintf(out, "price:           %s %s per %s\n", trade.DisplayPrice().ToSignificant(uniswapv2.AmountSignificantDigits), outAsset.Symbol, in.Symbol)
	fmt.Fprintf(out, "price impact:    %s\n", stats.PriceImpact)
	fmt.Fprintf(out, "lp fee:          %s\n", stats.LPFee)
	fmt.Fprintf(out, "%-16s %s\n", stats.BoundLabel+":", stats.Bound)
	return nil
}
