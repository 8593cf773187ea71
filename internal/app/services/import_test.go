package services

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/aslmarket/backend/internal/app/models"
	"github.com/aslmarket/backend/internal/pkg/apperrors"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestProductImportCSV(t *testing.T) {
	ctx := context.Background()
	repo := new(MockProductRepository)
	svc := NewProductService(repo, zerolog.Nop())

	csvData := utf8BOM + "Name,Description,Price,Category,Stock,Status,Tags,Image_URL,Discount,SKU\n" +
		"Go Course,Learn Go step by step,150000,Course,10,,go|backend| go ,,5,GO-1\n" +
		"Empty Stock,,9000,software,0,active,,,0,\n" +
		"Duplicate,,100,software,3,,,,0,DUP\n" +
		",,,,,,,,,\n" +
		"X,,100,software,1,,,,0,\n" +
		"Bad Price,,abc,software,1,,,,0,\n" +
		"Wrong Category,,100,hardware,1,,,,0,\n"

	repo.On("Create", ctx, mock.MatchedBy(func(p *models.Product) bool {
		return p.Name == "Go Course"
	})).Return(nil).Run(func(args mock.Arguments) {
		p := args.Get(1).(*models.Product)
		assert.Equal(t, "course", p.Category)
		assert.Equal(t, []string{"go", "backend"}, p.Tags)
		assert.Equal(t, models.ProductActive, p.Status)
		require.NotNil(t, p.SKU)
		assert.Equal(t, "GO-1", *p.SKU)
	})
	repo.On("Create", ctx, mock.MatchedBy(func(p *models.Product) bool {
		return p.Name == "Empty Stock"
	})).Return(nil).Run(func(args mock.Arguments) {
		assert.Equal(t, models.ProductOutOfStock, args.Get(1).(*models.Product).Status)
	})
	repo.On("Create", ctx, mock.MatchedBy(func(p *models.Product) bool {
		return p.Name == "Duplicate"
	})).Return(apperrors.ErrSKUAlreadyExists)

	res, err := svc.ImportCSV(ctx, strings.NewReader(csvData))

	require.NoError(t, err)
	assert.Equal(t, 6, res.Total)
	assert.Equal(t, 2, res.Imported)
	assert.Equal(t, 1, res.Skipped)
	assert.Equal(t, 3, res.Failed)
	assert.Len(t, res.Errors, 3)
	repo.AssertNumberOfCalls(t, "Create", 3)
}

func TestProductImportCSV_HeaderErrors(t *testing.T) {
	ctx := context.Background()
	svc := NewProductService(new(MockProductRepository), zerolog.Nop())

	_, err := svc.ImportCSV(ctx, strings.NewReader(""))
	assert.ErrorIs(t, err, apperrors.ErrValidationFailed)

	_, err = svc.ImportCSV(ctx, strings.NewReader("name,price\nA,1\n"))
	assert.ErrorIs(t, err, apperrors.ErrValidationFailed)
}

func TestCategoryFromName(t *testing.T) {
	assert.Equal(t, "ادویه و چاشنی", CategoryFromName("زعفران سرگل"))
	assert.Equal(t, "میوه و خشکبار", CategoryFromName("خرما مضافتی"))
	assert.Equal(t, "پلاستیک و پلیمر", CategoryFromName("گرانول پلی اتیلن"))
	assert.Equal(t, models.DefaultResearchCategory, CategoryFromName("Widgets"))
}

func TestCleanCell(t *testing.T) {
	assert.Equal(t, "a b c", cleanCell("  a\r\nb\t\tc "))
	assert.Equal(t, "", cleanCell("\n"))
}

func researchWorkbook(t *testing.T, rows [][]interface{}) *bytes.Buffer {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()

	sheet := f.GetSheetName(0)
	for i, row := range rows {
		cellRef, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow(sheet, cellRef, &row))
	}
	buf, err := f.WriteToBuffer()
	require.NoError(t, err)
	return buf
}

func TestResearchImportExcel(t *testing.T) {
	ctx := context.Background()
	repo := new(MockResearchProductRepository)
	svc := NewResearchProductService(repo, zerolog.Nop())

	buf := researchWorkbook(t, [][]interface{}{
		{"Export statistics 1402"},
		{"Product", "HS code", "Countries", "Description", "Value"},
		{"زعفران\nسرگل", "0910", "UAE, Iraq", "premium", "12000000"},
		{"Carpet", "5701", "Qatar"},
		{},
		{"", "0000"},
	})

	repo.On("NameExists", ctx, "زعفران سرگل").Return(false, nil)
	repo.On("NameExists", ctx, "Carpet").Return(true, nil)
	repo.On("Create", ctx, mock.MatchedBy(func(p *models.ResearchProduct) bool {
		return p.Name == "زعفران سرگل" && p.Category == "ادویه و چاشنی" && p.HSCode == "0910" &&
			p.TargetCountries == "UAE, Iraq" && p.Status == models.ResearchActive && *p.AddedBy == 1
	})).Return(nil)

	res, err := svc.ImportExcel(ctx, buf, 1)

	require.NoError(t, err)
	assert.Equal(t, 3, res.Total)
	assert.Equal(t, 1, res.Imported)
	assert.Equal(t, 1, res.Skipped)
	assert.Equal(t, 1, res.Failed)
	repo.AssertExpectations(t)
}

func TestResearchImportExcel_NotAWorkbook(t *testing.T) {
	svc := NewResearchProductService(new(MockResearchProductRepository), zerolog.Nop())
	_, err := svc.ImportExcel(context.Background(), strings.NewReader("plain text"), 1)
	assert.ErrorIs(t, err, apperrors.ErrValidationFailed)
}
