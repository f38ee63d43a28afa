package tasks

import (
	"context"
	"fmt"
)

// EnqueueEnrichBook schedules metadata enrichment for one book.
func (c *Client) EnqueueEnrichBook(ctx context.Context, bookID uint) (string, error) {
	ids, err := c.client.Add(EnrichBookTask{BookID: bookID}).Ctx(ctx).Save()
	if err != nil {
		return "", fmt.Errorf("enqueue enrich_book %d: %w", bookID, err)
	}
	return ids[0], nil
}

// EnqueueEnrichAll schedules enrichment of every book missing metadata.
func (c *Client) EnqueueEnrichAll(ctx context.Context, trigger string) (string, error) {
	ids, err := c.client.Add(EnrichAllBooksTask{Trigger: trigger}).Ctx(ctx).Save()
	if err != nil {
		return "", fmt.Errorf("enqueue enrich_all_books: %w", err)
	}
	return ids[0], nil
}
