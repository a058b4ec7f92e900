package transaction

import (
	"context"
	"testing"

	"gorm.io/gorm"
)

func TestGetTxPrefersContextTransaction(t *testing.T) {
	base := &gorm.DB{}
	tx := &gorm.DB{}
	db := NewDatabase(base)

	if got := db.GetTx(context.Background()); got != base {
		t.Fatalf("expected base handle without a transaction in context")
	}
	if got := db.GetTx(WithTx(context.Background(), tx)); got != tx {
		t.Fatalf("expected transaction from context")
	}
}
