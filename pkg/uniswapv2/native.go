package uniswapv2

import "github.com/ethereum/go-ethereum/common"

// WrappedNativeTokens maps chain IDs to the wrapped native token the router
// uses as the native-currency leg of a path.
// chainId -> wrapped token address
var WrappedNativeTokens = map[uint64]common.Address{
	1:        common.HexToAddress("0xc02aaa39b223fe8d0a0e5c4f27ead9083c756cc2"), // Ethereum: WETH
	5:        common.HexToAddress("0xb4fbf271143f4fbf7b91a5ded31805e42b2208d6"), // Goerli: WETH
	11155111: common.HexToAddress("0xfff9976782d46cc05630d1f6ebab18b2324d6b14"), // Sepolia: WETH
	56:       common.HexToAddress("0xbb4cdb9cbd36b01bd1cbaebf2de08d9173bc095c"), // BSC: WBNB
	8453:     common.HexToAddress("0x4200000000000000000000000000000000000006"), // Base: WETH
}

// NativeAsset returns the native-currency sentinel asset for a chain.
func NativeAsset(chainID uint64) (Asset, bool) {
	addr, ok := WrappedNativeTokens[chainID]
	if !ok {
		return Asset{}, false
	}
	symbol := "ETH"
	if chainID == 56 {
		symbol = "BNB"
	}
	return NewAsset(chainID, addr, symbol, 18), true
}

// IsNative reports whether a is its chain's native-currency sentinel. Only
// the address is compared; symbols are user-facing and untrusted.
func IsNative(a Asset) bool {
	addr, ok := WrappedNativeTokens[a.ChainID]
	return ok && addr == a.Address
}
