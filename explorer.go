package chainconf

// Explorer describes a block-explorer verification service for one chain.
type Explorer struct {
	Name       string `json:"name" yaml:"name"`
	APIURL     string `json:"apiURL" yaml:"apiURL"`
	BrowserURL string `json:"browserURL" yaml:"browserURL"`
}

var explorers = map[uint64]Explorer{
	ChainIDAvalanche: {
		Name:       "snowtrace",
		APIURL:     "https://api.snowtrace.io/api",
		BrowserURL: "https://snowtrace.io",
	},
	ChainIDFuji: {
		Name:       "snowtrace-testnet",
		APIURL:     "https://api-testnet.snowtrace.io/api",
		BrowserURL: "https://testnet.snowtrace.io",
	},
}

// ExplorerFor returns the verification service for chainID, if one is known.
func ExplorerFor(chainID uint64) (Explorer, bool) {
	e, ok := explorers[chainID]
	return e, ok
}
