package storage

import "olx-scraper/models"

// RowStore is the destination-table contract the load stage depends on.
type RowStore interface {
	TableExists(table string) (bool, error)
	Insert(table string, listings []*models.CleanedListing) error
	FetchAll(table string) ([]*models.CleanedListing, error)
	Close() error
}
