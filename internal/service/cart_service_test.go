package service

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/RoyceAzure/lab/storefront/internal/domain/model"
	"github.com/RoyceAzure/lab/storefront/internal/infra/repository/memdb"
)

type CartServiceTestSuite struct {
	suite.Suite
	catalogRepo *memdb.CatalogRepo
	cartRepo    *memdb.CartRepo
	cartService *CartService
}

func (suite *CartServiceTestSuite) SetupTest() {
	suite.catalogRepo = memdb.NewCatalogRepo()
	suite.cartRepo = memdb.NewCartRepo()
	suite.cartService = NewCartService(suite.cartRepo, suite.catalogRepo, testLogger())

	err := suite.catalogRepo.CreateProduct(context.Background(), &model.Product{
		ProductID: "p1", Name: "Galaxy S24 Ultra", Brand: "Samsung",
		Variants: []model.Variant{
			{VariantID: "v3", Name: "256GB - Onyx Black", Price: decimal.NewFromInt(899), Stock: 5},
			{VariantID: "v4", Name: "512GB - Marble Gray", Price: decimal.NewFromInt(999), Stock: 2},
		},
	})
	require.NoError(suite.T(), err)
}

func TestCartServiceTestSuite(t *testing.T) {
	suite.Run(t, new(CartServiceTestSuite))
}

// 新行帶商品名稱與單價快照
func (suite *CartServiceTestSuite) TestAddLineSnapshotsVariant() {
	cart, err := suite.cartService.AddLine(context.Background(), "u1", "v3", 2)
	require.NoError(suite.T(), err)
	require.Len(suite.T(), cart.Lines, 1)

	line := cart.Lines[0]
	require.Equal(suite.T(), "Galaxy S24 Ultra", line.ProductName)
	require.Equal(suite.T(), "256GB - Onyx Black", line.VariantName)
	require.True(suite.T(), decimal.NewFromInt(899).Equal(line.Price))
	require.Equal(suite.T(), 2, line.Quantity)
}

// 同一 variant 併入同一行
func (suite *CartServiceTestSuite) TestAddLineMergesSameVariant() {
	ctx := context.Background()

	_, err := suite.cartService.AddLine(ctx, "u1", "v3", 2)
	require.NoError(suite.T(), err)
	cart, err := suite.cartService.AddLine(ctx, "u1", "v3", 1)
	require.NoError(suite.T(), err)

	require.Len(suite.T(), cart.Lines, 1)
	require.Equal(suite.T(), 3, cart.Lines[0].Quantity)
}

// 超過即時庫存：整個動作不生效
func (suite *CartServiceTestSuite) TestAddLineBeyondStock() {
	cart, err := suite.cartService.AddLine(context.Background(), "u1", "v4", 3) // 庫存只有 2
	require.Error(suite.T(), err)
	require.ErrorIs(suite.T(), err, ErrOutOfStock)
	require.Nil(suite.T(), cart)

	saved, err := suite.cartService.GetCart(context.Background(), "u1")
	require.NoError(suite.T(), err)
	require.True(suite.T(), saved.IsEmpty())
}

// 已有兩件再加一件超過庫存
func (suite *CartServiceTestSuite) TestAddLineMergeBeyondStock() {
	ctx := context.Background()

	_, err := suite.cartService.AddLine(ctx, "u1", "v4", 2)
	require.NoError(suite.T(), err)
	_, err = suite.cartService.AddLine(ctx, "u1", "v4", 1)
	require.ErrorIs(suite.T(), err, ErrOutOfStock)

	cart, err := suite.cartService.GetCart(ctx, "u1")
	require.NoError(suite.T(), err)
	require.Equal(suite.T(), 2, cart.Lines[0].Quantity)
}

func (suite *CartServiceTestSuite) TestAddLineUnknownVariant() {
	_, err := suite.cartService.AddLine(context.Background(), "u1", "missing", 1)
	require.Error(suite.T(), err)
}

func (suite *CartServiceTestSuite) TestAddLineInvalidQuantity() {
	_, err := suite.cartService.AddLine(context.Background(), "u1", "v3", 0)
	require.ErrorIs(suite.T(), err, ErrInvalidQuantity)
}

func (suite *CartServiceTestSuite) TestChangeQuantity() {
	ctx := context.Background()

	cart, err := suite.cartService.AddLine(ctx, "u1", "v3", 2)
	require.NoError(suite.T(), err)
	lineID := cart.Lines[0].LineID

	cart, applied, err := suite.cartService.ChangeQuantity(ctx, "u1", lineID, 1)
	require.NoError(suite.T(), err)
	require.True(suite.T(), applied)
	require.Equal(suite.T(), 3, cart.Lines[0].Quantity)

	// 低於 1：不生效
	cart, applied, err = suite.cartService.ChangeQuantity(ctx, "u1", lineID, -5)
	require.NoError(suite.T(), err)
	require.False(suite.T(), applied)
	require.Equal(suite.T(), 3, cart.Lines[0].Quantity)

	// 超過庫存：不生效
	cart, applied, err = suite.cartService.ChangeQuantity(ctx, "u1", lineID, 10)
	require.NoError(suite.T(), err)
	require.False(suite.T(), applied)
	require.Equal(suite.T(), 3, cart.Lines[0].Quantity)
}

func (suite *CartServiceTestSuite) TestChangeQuantityUnknownLine() {
	_, _, err := suite.cartService.ChangeQuantity(context.Background(), "u1", "missing", 1)
	require.ErrorIs(suite.T(), err, ErrCartLineNotFound)
}

// 冪等移除
func (suite *CartServiceTestSuite) TestRemoveLine() {
	ctx := context.Background()

	cart, err := suite.cartService.AddLine(ctx, "u1", "v3", 1)
	require.NoError(suite.T(), err)
	lineID := cart.Lines[0].LineID

	cart, err = suite.cartService.RemoveLine(ctx, "u1", lineID)
	require.NoError(suite.T(), err)
	require.True(suite.T(), cart.IsEmpty())

	cart, err = suite.cartService.RemoveLine(ctx, "u1", lineID)
	require.NoError(suite.T(), err)
	require.True(suite.T(), cart.IsEmpty())
}

func (suite *CartServiceTestSuite) TestClear() {
	ctx := context.Background()

	_, err := suite.cartService.AddLine(ctx, "u1", "v3", 1)
	require.NoError(suite.T(), err)
	require.NoError(suite.T(), suite.cartService.Clear(ctx, "u1"))

	cart, err := suite.cartService.GetCart(ctx, "u1")
	require.NoError(suite.T(), err)
	require.True(suite.T(), cart.IsEmpty())
}
