package config

import (
	"fmt"
	"os"

	"github.com/ethereum/go-ethereum/common"
	"gopkg.in/yaml.v3"

	"github.com/eliobricenov/uniswap-swapper/pkg/uniswapv2"
)

// Token is one entry of the token list file:
//
//	tokens:
//	  - address: "0xA0b86991c6218b36c1d19D4a2e9Eb0cE3606eB48"
//	    symbol: USDC
//	    decimals: 6
type Token struct {
	Address  string `yaml:"address"`
	Symbol   string `yaml:"symbol"`
	Decimals uint8  `yaml:"decimals"`
}

type tokenList struct {
	Tokens []Token `yaml:"tokens"`
}

// LoadTokens reads and validates a YAML token list.
func LoadTokens(path string) ([]Token, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidTokenList, err)
	}
	return ParseTokens(data)
}

// ParseTokens decodes a YAML token list and rejects malformed or duplicate
// entries.
func ParseTokens(data []byte) ([]Token, error) {
	var list tokenList
	if err := yaml.Unmarshal(data, &list); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidTokenList, err)
	}
	seen := make(map[common.Address]struct{}, len(list.Tokens))
	for i, t := range list.Tokens {
		if !common.IsHexAddress(t.Address) {
			return nil, fmt.Errorf("%w: entry %d has invalid address %q", ErrInvalidTokenList, i, t.Address)
		}
		if t.Decimals > 77 {
			return nil, fmt.Errorf("%w: entry %d has %d decimals", ErrInvalidTokenList, i, t.Decimals)
		}
		addr := common.HexToAddress(t.Address)
		if _, dup := seen[addr]; dup {
			return nil, fmt.Errorf("%w: duplicate address %s", ErrInvalidTokenList, addr.Hex())
		}
		seen[addr] = struct{}{}
	}
	return list.Tokens, nil
}

// Asset returns the token as an asset on chainID.
func (t Token) Asset(chainID uint64) uniswapv2.Asset {
	return uniswapv2.NewAsset(chainID, common.HexToAddress(t.Address), t.Symbol, t.Decimals)
}
