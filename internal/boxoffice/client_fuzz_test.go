package boxoffice

import (
	"testing"
	"time"
)

func FuzzConvertToResult(f *testing.F) {
	f.Add(int64(1000000), int64(500000), "Warner Bros", "USD", "BoxAPI")
	f.Add(int64(-5), int64(0), "", "", "")

	f.Fuzz(func(t *testing.T, worldwide, budget int64, distributor, currency, source string) {
		resp := apiResponse{
			Distributor: optionalString(distributor),
			Budget:      &budget,
			Revenue: revenuePayload{
				Worldwide: &worldwide,
			},
			Currency: optionalString(currency),
			Source:   optionalString(source),
		}
		if worldwide%2 == 0 {
			resp.Revenue.Worldwide = nil
		}

		last := time.Unix(worldwide, 0)
		resp.LastUpdated = &last

		result := convertToResult(resp)
		if result == nil || result.BoxOffice == nil {
			t.Fatalf("convertToResult returned nil result")
		}
		if result.BoxOffice.Currency == "" {
			t.Fatalf("currency should never be empty")
		}
		if result.BoxOffice.Source == "" {
			t.Fatalf("source should never be empty")
		}
		gross := result.TotalGross()
		if resp.Revenue.Worldwide == nil && gross != nil {
			t.Fatalf("absent worldwide became %d", *gross)
		}
		if result.Budget != nil && *result.Budget < 0 {
			t.Fatalf("negative budget %d leaked through", *result.Budget)
		}
		if gross != nil && *gross < 0 {
			t.Fatalf("negative gross %d leaked through", *gross)
		}
	})
}

func optionalString(value string) *string {
	if value == "" {
		return nil
	}
	return &value
}
