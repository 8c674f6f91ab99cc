package orchestration

import (
	"context"
	"testing"

	testhelpers "github.com/idro/reliefmatch/pkg/infrastructure/testing"
)

func BenchmarkReliefEngine_Recompute(b *testing.B) {
	ctx := context.Background()
	campRepo, providerRepo, statusRepo := testhelpers.BuildFloodTestData()
	engine := NewReliefEngine(campRepo, providerRepo, statusRepo)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := engine.Recompute(ctx); err != nil {
			b.Fatalf("Recompute failed: %v", err)
		}
	}
}
