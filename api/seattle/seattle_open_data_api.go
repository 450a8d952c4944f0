package seattle

import (
	"context"

	"bike-counter/models"
)

// SeattleOpenDataAPI defines the interface for querying the Fremont Bridge counter dataset
type SeattleOpenDataAPI interface {
	GetBikeCounts(ctx context.Context, month, year int) ([]models.BikeCountRecord, error)
}
