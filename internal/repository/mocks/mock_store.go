package mocks

import (
	"context"

	"catalogapi/internal/repository"

	"github.com/stretchr/testify/mock"
)

// MockTx hands out the repository mocks it holds.
type MockTx struct {
	AssetRepo  *MockAssetRepository
	EntryRepo  *MockEntryRepository
	TagRepo    *MockTagRepository
	ReviewRepo *MockReviewRepository
	UserRepo   *MockUserRepository
}

// NewMockTx returns a MockTx with a fresh mock behind every repository.
func NewMockTx() *MockTx {
	return &MockTx{
		AssetRepo:  new(MockAssetRepository),
		EntryRepo:  new(MockEntryRepository),
		TagRepo:    new(MockTagRepository),
		ReviewRepo: new(MockReviewRepository),
		UserRepo:   new(MockUserRepository),
	}
}

func (m *MockTx) Assets() repository.AssetRepository   { return m.AssetRepo }
func (m *MockTx) Entries() repository.EntryRepository  { return m.EntryRepo }
func (m *MockTx) Tags() repository.TagRepository       { return m.TagRepo }
func (m *MockTx) Reviews() repository.ReviewRepository { return m.ReviewRepo }
func (m *MockTx) Users() repository.UserRepository     { return m.UserRepo }

// MockStore runs WithTx callbacks against Tx. The error configured for WithTx is returned
// in place of a commit when the callback succeeds.
type MockStore struct {
	*MockTx
	mock.Mock
	Tx *MockTx
}

// NewMockStore returns a MockStore whose transactional and plain repositories are separate mocks.
func NewMockStore() *MockStore {
	return &MockStore{MockTx: NewMockTx(), Tx: NewMockTx()}
}

func (m *MockStore) WithTx(ctx context.Context, fn func(ctx context.Context, tx repository.Tx) error) error {
	args := m.Called(ctx)
	if err := fn(ctx, m.Tx); err != nil {
		return err
	}
	return args.Error(0)
}

var (
	_ repository.Store = (*MockStore)(nil)
	_ repository.Tx    = (*MockTx)(nil)
)
