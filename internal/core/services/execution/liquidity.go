package execution

// StaticLiquidityDirectory is the default ports.LiquidityProvider: a fixed
// set of large-cap symbols scores 0.9, everything else 0.7. Hosts wanting a
// real liquidity feed supply their own provider.
type StaticLiquidityDirectory struct {
	largeCaps     map[string]struct{}
	largeCapScore float64
	defaultScore  float64
}

// NewStaticLiquidityDirectory builds the directory with the default
// large-cap set.
func NewStaticLiquidityDirectory() *StaticLiquidityDirectory {
	symbols := []string{"AAPL", "MSFT", "GOOGL", "AMZN", "NVDA", "META", "TSLA", "SPY", "QQQ"}

	largeCaps := make(map[string]struct{}, len(symbols))
	for _, s := range symbols {
		largeCaps[s] = struct{}{}
	}

	return &StaticLiquidityDirectory{
		largeCaps:     largeCaps,
		largeCapScore: 0.9,
		defaultScore:  0.7,
	}
}

// NewStaticLiquidityDirectoryWithSymbols builds a directory over a custom
// large-cap set.
func NewStaticLiquidityDirectoryWithSymbols(symbols []string) *StaticLiquidityDirectory {
	d := NewStaticLiquidityDirectory()
	d.largeCaps = make(map[string]struct{}, len(symbols))
	for _, s := range symbols {
		d.largeCaps[s] = struct{}{}
	}
	return d
}

// BaseScore returns the baseline liquidity score for a symbol.
func (d *StaticLiquidityDirectory) BaseScore(symbol string) float64 {
	if _, ok := d.largeCaps[symbol]; ok {
		return d.largeCapScore
	}
	return d.defaultScore
}
