package main

import (
	"context"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"donorlink/internal/browse"
	"donorlink/internal/catalog"
	"donorlink/internal/contact/gate"
	id "donorlink/pkg/domain"
)

func newSearchCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "search [query]",
		Short: "List donations matching a query in all three sections",
		Long: `Search matches medicine and equipment by name and blood donations by
blood type or location, case-insensitively. With no query every donation is listed.`,
		Args: cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			st, err := openStores(ctx, settings(a.v), a.logger)
			if err != nil {
				return err
			}
			defer st.Close()

			session, report := a.loadSession(ctx, st, nil)
			session.SetSearchQuery(strings.Join(args, " "))
			return renderSections(cmd.OutOrStdout(), session, report)
		},
	}
}

// loadSession builds a local browse session and fills it from the stores.
func (a *app) loadSession(ctx context.Context, st *stores, screen gate.Screen) (*browse.Session, catalog.LoadReport) {
	session := browse.NewSession(id.NewBrowseSessionID(), id.UserID{}, screen, time.Now())
	loader := catalog.NewLoader(st.source,
		catalog.WithLogger(a.logger),
		catalog.WithFetchTimeout(settings(a.v).Catalog.FetchTimeout),
	)
	report := loader.Load(ctx, session.Filter())
	return session, report
}
