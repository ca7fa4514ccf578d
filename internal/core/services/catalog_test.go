// internal/core/services/catalog_test.go
package services_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/ammerola/pharmacy-be/internal/core/domain"
	"github.com/ammerola/pharmacy-be/internal/core/services"
	"github.com/ammerola/pharmacy-be/test/helpers"
	"github.com/ammerola/pharmacy-be/test/mocks"
)

func TestCategoryService(t *testing.T) {
	ctx := context.Background()

	t.Run("create_trims_name", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		repo := mocks.NewMockCategoryRepository(ctrl)
		repo.EXPECT().Create(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, c *domain.Category) error {
				assert.Equal(t, "Analgesics", c.Name)
				assert.NotEqual(t, uuid.Nil, c.ID)
				return nil
			})

		svc := services.NewCategoryService(repo, helpers.TestLogger())
		require.NoError(t, svc.Create(ctx, &domain.Category{Name: "  Analgesics "}))
	})

	t.Run("create_requires_name", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		repo := mocks.NewMockCategoryRepository(ctrl)

		svc := services.NewCategoryService(repo, helpers.TestLogger())
		err := svc.Create(ctx, &domain.Category{})
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	})

	t.Run("rename", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		repo := mocks.NewMockCategoryRepository(ctrl)
		id := uuid.New()
		repo.EXPECT().Update(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, c *domain.Category) error {
				assert.Equal(t, id, c.ID)
				assert.Equal(t, "Antibiotics", c.Name)
				return nil
			})

		svc := services.NewCategoryService(repo, helpers.TestLogger())
		require.NoError(t, svc.Rename(ctx, id, "Antibiotics"))
	})

	t.Run("delete_in_use", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		repo := mocks.NewMockCategoryRepository(ctrl)
		repo.EXPECT().Delete(gomock.Any(), gomock.Any()).
			Return(domain.Conflict("Category is still used by medicines"))

		svc := services.NewCategoryService(repo, helpers.TestLogger())
		err := svc.Delete(ctx, uuid.New())
		assert.ErrorIs(t, err, domain.ErrConflict)
	})

	t.Run("list", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		repo := mocks.NewMockCategoryRepository(ctrl)
		repo.EXPECT().List(gomock.Any()).
			Return([]*domain.Category{helpers.CreateTestCategory(), helpers.CreateTestCategory()}, nil)

		svc := services.NewCategoryService(repo, helpers.TestLogger())
		categories, err := svc.List(ctx)
		require.NoError(t, err)
		assert.Len(t, categories, 2)
	})
}

func TestPharmacyService_Create(t *testing.T) {
	owner := helpers.CreateTestUser()

	tests := []struct {
		name       string
		pharmacy   *domain.Pharmacy
		setupMocks func(*mocks.MockPharmacyRepository, *mocks.MockUserRepository)
		wantErr    error
	}{
		{
			name:     "success",
			pharmacy: &domain.Pharmacy{Name: "Central", Location: "Main St 1", UserID: owner.ID},
			setupMocks: func(repo *mocks.MockPharmacyRepository, users *mocks.MockUserRepository) {
				users.EXPECT().GetByID(gomock.Any(), owner.ID).Return(owner, nil)
				repo.EXPECT().Create(gomock.Any(), gomock.Any()).Return(nil)
			},
		},
		{
			name:       "missing_location",
			pharmacy:   &domain.Pharmacy{Name: "Central", UserID: owner.ID},
			setupMocks: func(*mocks.MockPharmacyRepository, *mocks.MockUserRepository) {},
			wantErr:    domain.ErrInvalidInput,
		},
		{
			name:     "unknown_owner",
			pharmacy: &domain.Pharmacy{Name: "Central", Location: "Main St 1", UserID: uuid.New()},
			setupMocks: func(repo *mocks.MockPharmacyRepository, users *mocks.MockUserRepository) {
				users.EXPECT().GetByID(gomock.Any(), gomock.Any()).Return(nil, domain.NotFound("User not found"))
			},
			wantErr: domain.ErrInvalidInput,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			repo := mocks.NewMockPharmacyRepository(ctrl)
			users := mocks.NewMockUserRepository(ctrl)
			tt.setupMocks(repo, users)

			svc := services.NewPharmacyService(repo, users, helpers.TestLogger())
			err := svc.Create(context.Background(), tt.pharmacy)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.NotEqual(t, uuid.Nil, tt.pharmacy.ID)
		})
	}
}

func TestPharmacyService_Categories(t *testing.T) {
	ctx := context.Background()
	pharmacyID := uuid.New()
	oldID, newID := uuid.New(), uuid.New()

	t.Run("add", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		repo := mocks.NewMockPharmacyRepository(ctrl)
		repo.EXPECT().AddCategory(gomock.Any(), pharmacyID, newID).Return(nil)

		svc := services.NewPharmacyService(repo, mocks.NewMockUserRepository(ctrl), helpers.TestLogger())
		require.NoError(t, svc.AddCategory(ctx, pharmacyID, newID))
	})

	t.Run("add_requires_category", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		svc := services.NewPharmacyService(mocks.NewMockPharmacyRepository(ctrl),
			mocks.NewMockUserRepository(ctrl), helpers.TestLogger())

		err := svc.AddCategory(ctx, pharmacyID, uuid.Nil)
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	})

	t.Run("add_duplicate", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		repo := mocks.NewMockPharmacyRepository(ctrl)
		repo.EXPECT().AddCategory(gomock.Any(), pharmacyID, newID).
			Return(domain.Conflict("Category already linked to pharmacy"))

		svc := services.NewPharmacyService(repo, mocks.NewMockUserRepository(ctrl), helpers.TestLogger())
		err := svc.AddCategory(ctx, pharmacyID, newID)
		assert.ErrorIs(t, err, domain.ErrConflict)
	})

	t.Run("replace", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		repo := mocks.NewMockPharmacyRepository(ctrl)
		repo.EXPECT().ReplaceCategory(gomock.Any(), pharmacyID, oldID, newID).Return(nil)

		svc := services.NewPharmacyService(repo, mocks.NewMockUserRepository(ctrl), helpers.TestLogger())
		require.NoError(t, svc.ReplaceCategory(ctx, pharmacyID, oldID, newID))
	})

	t.Run("replace_requires_new_category", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		svc := services.NewPharmacyService(mocks.NewMockPharmacyRepository(ctrl),
			mocks.NewMockUserRepository(ctrl), helpers.TestLogger())

		err := svc.ReplaceCategory(ctx, pharmacyID, oldID, uuid.Nil)
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	})

	t.Run("remove_unlinked", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		repo := mocks.NewMockPharmacyRepository(ctrl)
		repo.EXPECT().RemoveCategory(gomock.Any(), pharmacyID, oldID).
			Return(domain.NotFound("Category not linked to pharmacy"))

		svc := services.NewPharmacyService(repo, mocks.NewMockUserRepository(ctrl), helpers.TestLogger())
		err := svc.RemoveCategory(ctx, pharmacyID, oldID)
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})
}
