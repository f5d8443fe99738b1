package main

import (
	"context"
	"os"

	"github.com/rotisserie/eris"

	"github.com/sells-group/leadscout/internal/config"
	"github.com/sells-group/leadscout/internal/store"
	"github.com/sells-group/leadscout/pkg/notion"
	"github.com/sells-group/leadscout/pkg/salesforce"
)

// initStore opens the lead store selected by store.driver.
func initStore(ctx context.Context, sc config.StoreConfig) (store.LeadStore, error) {
	switch sc.Driver {
	case "sqlite":
		dsn := sc.SQLitePath
		if dsn == "" {
			dsn = "leadscout.db"
		}
		return store.NewSQLite(dsn)
	case "postgres":
		return store.NewPostgres(ctx, sc.DatabaseURL, &store.PoolConfig{
			MaxConns: sc.MaxConns,
			MinConns: sc.MinConns,
		})
	case "notion":
		client := notion.NewClient(cfg.Notion.Token, notion.WithRateLimit(cfg.Notion.RateLimit))
		return store.NewNotion(client, cfg.Notion.LeadDB), nil
	case "salesforce":
		client, err := initSalesforce(cfg.Salesforce)
		if err != nil {
			return nil, err
		}
		return store.NewSalesforce(client), nil
	default:
		return nil, eris.Errorf("unsupported store driver: %s", sc.Driver)
	}
}

func initSalesforce(sc config.SalesforceConfig) (salesforce.Client, error) {
	if sc.ClientID == "" {
		return nil, eris.New("salesforce client ID is required (LEADSCOUT_SALESFORCE_CLIENT_ID)")
	}

	pemData, err := os.ReadFile(sc.KeyPath)
	if err != nil {
		return nil, eris.Wrap(err, "read salesforce JWT private key")
	}

	return salesforce.Connect(salesforce.Credentials{
		LoginURL:   sc.LoginURL,
		Username:   sc.Username,
		ClientID:   sc.ClientID,
		PrivateKey: string(pemData),
	}, salesforce.WithRateLimit(sc.RateLimit))
}

// openStore opens and migrates the configured store.
func openStore(ctx context.Context) (store.LeadStore, error) {
	st, err := initStore(ctx, cfg.Store)
	if err != nil {
		return nil, err
	}
	if err := st.Migrate(ctx); err != nil {
		_ = st.Close()
		return nil, eris.Wrap(err, "migrate store")
	}
	return st, nil
}
