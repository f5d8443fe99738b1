package notion

import (
	"context"

	"github.com/jomei/notionapi"
	"github.com/rotisserie/eris"
)

// QueryAll fetches every page matching req, following cursors.
func QueryAll(ctx context.Context, c Client, dbID string, req *notionapi.DatabaseQueryRequest) ([]notionapi.Page, error) {
	var all []notionapi.Page

	next := &notionapi.DatabaseQueryRequest{}
	if req != nil {
		next.Filter = req.Filter
		next.Sorts = req.Sorts
		next.PageSize = req.PageSize
	}

	for {
		if err := ctx.Err(); err != nil {
			return nil, eris.Wrap(err, "notion: query all")
		}
		resp, err := c.QueryDatabase(ctx, dbID, next)
		if err != nil {
			return nil, eris.Wrap(err, "notion: query all page")
		}
		all = append(all, resp.Results...)
		if !resp.HasMore {
			return all, nil
		}
		next = &notionapi.DatabaseQueryRequest{
			Filter:      next.Filter,
			Sorts:       next.Sorts,
			PageSize:    next.PageSize,
			StartCursor: resp.NextCursor,
		}
	}
}

// FindByText returns the pages whose rich_text property equals value exactly.
// At most limit pages are requested.
func FindByText(ctx context.Context, c Client, dbID, property, value string, limit int) ([]notionapi.Page, error) {
	if limit <= 0 {
		limit = 1
	}
	resp, err := c.QueryDatabase(ctx, dbID, &notionapi.DatabaseQueryRequest{
		Filter: notionapi.PropertyFilter{
			Property: property,
			RichText: &notionapi.TextFilterCondition{Equals: value},
		},
		PageSize: limit,
	})
	if err != nil {
		return nil, eris.Wrapf(err, "notion: find %s = %q", property, value)
	}
	return resp.Results, nil
}
