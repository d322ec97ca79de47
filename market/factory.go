package market

import (
	"fmt"
	"strings"

	"investmanager.com/config"
	"investmanager.com/oauth"
	"investmanager.com/shared"
)

// NewFromConfig builds the gateway for MARKET_PROVIDER.
func NewFromConfig(cfg *config.Config) (*Gateway, error) {
	var live Provider
	switch strings.ToLower(cfg.MarketProvider) {
	case "", "alphavantage":
		var auth AuthHeaderFunc
		if cfg.MarketOAuthTokenURL != "" {
			auth = oauth.NewClient(oauth.ClientConfig{
				TokenURL:     cfg.MarketOAuthTokenURL,
				ClientID:     cfg.MarketOAuthClientID,
				ClientSecret: cfg.MarketOAuthClientSecret,
			}).AuthorizationHeader
		}
		live = NewAlphaVantage(shared.FastClient(cfg.IgnoreSSLCerts, cfg.MarketTimeout),
			cfg.AlphaVantageBaseURL, cfg.AlphaVantageAPIKey, cfg.MarketTimeout, auth)
	case "finnhub":
		live = NewFinnhub(cfg.FinnhubAPIKey)
	case "alpaca":
		live = NewAlpaca(cfg.AlpacaKeyID, cfg.AlpacaSecretKey)
	case "snapshot":
	default:
		return nil, fmt.Errorf("unknown MARKET_PROVIDER %q", cfg.MarketProvider)
	}
	return NewGateway(live, cfg.SnapshotPath, cfg.MarketTimeout), nil
}
