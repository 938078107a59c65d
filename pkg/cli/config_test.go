package cli

import (
	"context"
	"errors"
	"testing"

	"github.com/m-mizutani/gt"

	"github.com/tuned-app/tuned/pkg/memory"
	"github.com/tuned-app/tuned/pkg/model"
	"github.com/tuned-app/tuned/pkg/repository"
	"github.com/tuned-app/tuned/pkg/usecase/answer"
	"github.com/tuned-app/tuned/pkg/usecase/index"
)

func TestMissingProjectMessageIsShared(t *testing.T) {
	ctx := context.Background()

	// Indexing path: repository construction fails with the fixed message.
	cfg := &config{database: "(default)"}
	_, _, err := cfg.newRepository(ctx)
	gt.Error(t, err)
	gt.True(t, errors.Is(err, model.ErrNoCredential))
	gt.S(t, err.Error()).Contains(model.MissingProjectMessage)

	// Answering path: the same string comes back in-band.
	uc := answer.New(memory.New(), index.New(repository.NewMemory(), nil), nil)
	ans := uc.Ask(ctx, "anything", "s1")
	gt.Equal(t, ans.Text, model.MissingProjectMessage)
}

func TestNewMemoryStoreDefaultsToInProcess(t *testing.T) {
	cfg := &config{}
	store := cfg.newMemoryStore()
	gt.V(t, store).NotNil()

	gt.NoError(t, store.Append(context.Background(), "s1", "q", "a"))
	history, err := store.Read(context.Background(), "s1")
	gt.NoError(t, err)
	gt.A(t, history).Length(1)
}
