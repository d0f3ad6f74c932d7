package export

import (
	"context"

	"soldi/internal/core"
)

// TransactionAppender writes one transaction to the export target.
type TransactionAppender interface {
	AppendTransaction(ctx context.Context, t core.Transaction) error
}
