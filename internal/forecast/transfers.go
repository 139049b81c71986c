package forecast

import (
	"fmt"
	"math"

	"github.com/kjstillabower/sentinel-predict-service/internal/facility"
	"github.com/kjstillabower/sentinel-predict-service/internal/locale"
	"github.com/kjstillabower/sentinel-predict-service/internal/models"
	"github.com/kjstillabower/sentinel-predict-service/internal/random"
)

// TransferThreshold is the risk score above which a transfer is recommended.
const TransferThreshold = 75

// Transfer probability bounds (percent, inclusive).
const (
	MinTransferProbability = 85
	MaxTransferProbability = 99
)

// transferProbability truncates a draw over [85, 100) so 99 is reachable.
func transferProbability(s random.Sampler) (int, error) {
	v := s.Uniform(MinTransferProbability, MaxTransferProbability+1)
	if !finite(v) {
		return 0, fmt.Errorf("transfer probability: %w", ErrNonFinite)
	}
	return int(clamp(math.Floor(v), MinTransferProbability, MaxTransferProbability)), nil
}

// adviseTransfers returns at most one transfer for source. The result is never nil.
func adviseTransfers(table *facility.Table, catalog *locale.Catalog, s random.Sampler, source string, score int) ([]models.Transfer, error) {
	transfers := []models.Transfer{}
	if score <= TransferThreshold {
		return transfers, nil
	}
	route := table.Route(source)
	reason, err := catalog.Pair(locale.TransferLoadBalancingReason, nil)
	if err != nil {
		return nil, fmt.Errorf("transfer reason: %w", err)
	}
	p, err := transferProbability(s)
	if err != nil {
		return nil, err
	}
	return append(transfers, models.Transfer{
		SourceID:             source,
		TargetID:             route.Target,
		Probability:          p,
		Reason:               reason,
		RecommendedSpecialty: route.Specialty,
	}), nil
}
