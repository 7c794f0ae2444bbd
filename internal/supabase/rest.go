package supabase

import (
	"context"
	"fmt"
	"net/url"

	"declutteredWeb/internal/models"
)

// Query builds a single PostgREST request against one table. Filters
// compose in PostgREST's query string dialect: ?user_id=eq.X&order=...
type Query struct {
	client *Client
	table  string
	token  string
	params url.Values
}

func (c *Client) From(table string) *Query {
	return &Query{
		client: c,
		table:  table,
		params: url.Values{},
	}
}

// Auth sets the access token the row level security policies see.
func (q *Query) Auth(accessToken string) *Query {
	q.token = accessToken
	return q
}

func (q *Query) Select(columns string) *Query {
	q.params.Set("select", columns)
	return q
}

func (q *Query) Eq(column, value string) *Query {
	q.params.Set(column, "eq."+value)
	return q
}

func (q *Query) Order(column string, descending bool) *Query {
	dir := "asc"
	if descending {
		dir = "desc"
	}
	q.params.Set("order", column+"."+dir)
	return q
}

func (q *Query) Limit(n int) *Query {
	q.params.Set("limit", fmt.Sprint(n))
	return q
}

func (q *Query) Offset(n int) *Query {
	q.params.Set("offset", fmt.Sprint(n))
	return q
}

func (q *Query) path() string {
	return "/rest/v1/" + q.table
}

// Get decodes matching rows into dest, which must be a pointer to a
// slice of row structs.
func (q *Query) Get(ctx context.Context, dest any) error {
	_, err := handleError(q.client.req(ctx, q.token, dest).
		SetQueryParamsFromValues(q.params).
		Get(q.path()))
	return err
}

// Single decodes exactly one row into dest. No match is ErrNoRecord.
func (q *Query) Single(ctx context.Context, dest any) error {
	res, err := handleError(q.client.req(ctx, q.token, dest).
		SetQueryParamsFromValues(q.params).
		SetHeader("Accept", "application/vnd.pgrst.object+json").
		Get(q.path()))
	if err != nil {
		if res != nil && (res.StatusCode() == 404 || res.StatusCode() == 406) {
			return models.ErrNoRecord
		}
		return err
	}
	return nil
}

// Insert posts rows and, when dest is non-nil, asks PostgREST to return
// the created representation.
func (q *Query) Insert(ctx context.Context, body any, dest any) error {
	req := q.client.req(ctx, q.token, dest).
		SetQueryParamsFromValues(q.params).
		SetBody(body)
	if dest != nil {
		req.SetHeader("Prefer", "return=representation")
	}
	_, err := handleError(req.Post(q.path()))
	return err
}

// Update patches rows selected by the filters set on the query.
func (q *Query) Update(ctx context.Context, body any, dest any) error {
	req := q.client.req(ctx, q.token, dest).
		SetQueryParamsFromValues(q.params).
		SetBody(body)
	if dest != nil {
		req.SetHeader("Prefer", "return=representation")
	}
	_, err := handleError(req.Patch(q.path()))
	return err
}

// Delete removes rows selected by the filters set on the query.
func (q *Query) Delete(ctx context.Context) error {
	_, err := handleError(q.client.req(ctx, q.token, nil).
		SetQueryParamsFromValues(q.params).
		Delete(q.path()))
	return err
}
