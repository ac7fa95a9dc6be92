package repository_test

import (
	"testing"

	"github.com/abellastitches/storefront/internal/domain"
	"github.com/abellastitches/storefront/internal/port"
	"github.com/abellastitches/storefront/internal/repository"
	"github.com/brianvoe/gofakeit/v7"
	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/samber/lo"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	"golang.org/x/text/currency"
)

type productRepositorySuite struct {
	suite.Suite

	pool      *pgxpool.Pool
	repo      port.ProductRepository
	container testcontainers.Container
}

// entry point to run the tests in the suite
func TestProductRepositorySuite(t *testing.T) {
	suite.Run(t, new(productRepositorySuite))
}

// before all tests in the suite
func (suite *productRepositorySuite) SetupSuite() {
	ctx := suite.T().Context()

	var (
		connStr string
		err     error
	)

	suite.container, connStr, err = startPostgres(ctx)
	suite.NoError(err)

	suite.pool, err = pgxpool.New(ctx, connStr)
	suite.NoError(err)

	suite.repo = repository.NewProduct(suite.pool)
}

// after all tests in the suite
func (suite *productRepositorySuite) TearDownSuite() {
	ctx := suite.T().Context()

	if suite.pool != nil {
		suite.pool.Close()
	}
	if suite.container != nil {
		suite.NoError(suite.container.Terminate(ctx))
	}
}

func (suite *productRepositorySuite) TestInsertProduct() {
	defer suite.deleteAll()

	tests := []struct {
		name        string
		productFunc func() domain.Product
		wantError   string
	}{
		{
			name:        "valid product: ok",
			productFunc: fakeProduct,
		},
		{
			name: "no name: fail",
			productFunc: func() domain.Product {
				p := fakeProduct()
				p.ProductName = ""
				return p
			},
			wantError: "product name is empty",
		},
		{
			name: "negative price: fail",
			productFunc: func() domain.Product {
				p := fakeProduct()
				p.Price = domain.NGN(decimal.NewFromInt(-1))
				return p
			},
			wantError: "price is negative",
		},
	}

	for _, tt := range tests {
		suite.Run(tt.name, func() {
			t := suite.T()
			ctx := t.Context()

			ttProduct := tt.productFunc()

			productID, err := suite.repo.InsertProduct(ctx, ttProduct)
			if tt.wantError != "" {
				require.EqualError(t, err, tt.wantError)
				return
			}
			require.NoError(t, err)

			actual, err := suite.repo.GetProduct(ctx, productID)
			require.NoError(t, err)

			assertProduct(t, ttProduct, actual)
		})
	}
}

func (suite *productRepositorySuite) TestListProducts() {
	defer suite.deleteAll()

	t := suite.T()
	ctx := t.Context()

	adire := fakeProduct()
	adire.Category = "Adire"

	ankara := fakeProduct()
	ankara.Category = "Ankara"

	for _, product := range []domain.Product{adire, ankara} {
		_, err := suite.repo.InsertProduct(ctx, product)
		require.NoError(t, err)
	}

	all, err := suite.repo.ListProducts(ctx, "")
	require.NoError(t, err)
	assert.Len(t, all, 2)

	filtered, err := suite.repo.ListProducts(ctx, "Adire")
	require.NoError(t, err)
	require.Len(t, filtered, 1)
	assert.Equal(t, adire.ProductName, filtered[0].ProductName)

	categories, err := suite.repo.Categories(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"Adire", "Ankara"}, categories)
}

func (suite *productRepositorySuite) TestUpdateProduct() {
	defer suite.deleteAll()

	t := suite.T()
	ctx := t.Context()

	product := fakeProduct()
	productID, err := suite.repo.InsertProduct(ctx, product)
	require.NoError(t, err)

	product.ID = productID
	product.ProductName = gofakeit.ProductName()
	product.Price = domain.NGN(decimal.NewFromInt(52000))

	updated, err := suite.repo.UpdateProduct(ctx, product)
	require.NoError(t, err)
	assertProduct(t, product, updated)

	missing := fakeProduct()
	missing.ID = randomUUID()

	_, err = suite.repo.UpdateProduct(ctx, missing)
	require.ErrorIs(t, err, domain.ErrNotFound)
}

func (suite *productRepositorySuite) TestDeleteProduct() {
	defer suite.deleteAll()

	t := suite.T()
	ctx := t.Context()

	productID, err := suite.repo.InsertProduct(ctx, fakeProduct())
	require.NoError(t, err)

	require.NoError(t, suite.repo.DeleteProduct(ctx, productID))

	_, err = suite.repo.GetProduct(ctx, productID)
	require.ErrorIs(t, err, domain.ErrNotFound)

	err = suite.repo.DeleteProduct(ctx, productID)
	require.ErrorIs(t, err, domain.ErrNotFound)
}

func (suite *productRepositorySuite) deleteAll() {
	_, err := suite.pool.Exec(suite.T().Context(), "DELETE FROM products")
	suite.NoError(err)
}

func fakeProduct() domain.Product {
	categories := []string{"Adire", "Ankara", "Batik", "Streetwear"}

	return domain.Product{
		ProductName: gofakeit.ProductName(),
		Category:    lo.Sample(categories),
		Price:       domain.NGN(decimal.NewFromFloat(gofakeit.Price(5000, 80000))),
		ImageURL:    gofakeit.URL(),
		Description: gofakeit.Sentence(8),
	}
}

func assertProduct(t *testing.T, expected domain.Product, actual domain.Product) {
	t.Helper()

	currencyComparer := cmp.Comparer(func(x, y currency.Unit) bool {
		return x.String() == y.String()
	})

	decimalComparer := cmp.Comparer(func(x, y decimal.Decimal) bool {
		return x.Equal(y)
	})

	opts := cmp.Options{
		cmpopts.IgnoreFields(domain.Product{}, "ID", "CreatedAt"),
		cmpopts.EquateEmpty(),
	}

	diff := cmp.Diff(expected, actual, currencyComparer, decimalComparer, opts)
	assert.Empty(t, diff)
}
