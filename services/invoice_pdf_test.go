package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateBillPDF_Basic(t *testing.T) {
	docs := BuildDocuments(fixtureInput(fixtureItems(2)), ModePrint)

	result, err := GenerateBillPDF(docs)
	require.NoError(t, err)
	require.Greater(t, len(result), 5)
	assert.Equal(t, "%PDF-", string(result[:5]))
	assert.Equal(t, 2, pdfPageCount(result), "invoice and challan each get one page")
}

func TestGenerateBillPDF_PagesPerTenRows(t *testing.T) {
	docs := BuildDocuments(fixtureInput(fixtureItems(11)), ModePrint)

	result, err := GenerateBillPDF(docs)
	require.NoError(t, err)
	assert.Equal(t, 4, pdfPageCount(result))
}

func TestGenerateBillPDF_EmptyItems(t *testing.T) {
	docs := BuildDocuments(fixtureInput(nil), ModePrint)

	result, err := GenerateBillPDF(docs)
	require.NoError(t, err)
	assert.NotEmpty(t, result)
}

func TestGenerateBillPDF_SingleDocument(t *testing.T) {
	in := fixtureInput(fixtureItems(3))
	doc := BuildDocument(DocumentChallan, in, Compute(in.Items, in.Discount, in.GSTRate), ModePrint)

	result, err := GenerateBillPDF([]Document{doc})
	require.NoError(t, err)
	assert.Equal(t, 1, pdfPageCount(result))
}

func TestBillPages_HeaderRepeatsOnEveryPage(t *testing.T) {
	doc := BuildDocuments(fixtureInput(fixtureItems(21)), ModePrint)[0]

	pages := billPages(doc)
	require.Len(t, pages, 3)

	header := len(billHeaderRows(doc)) + 1
	summary := len(billSummaryRows(doc)) + len(billFooterRows(doc))
	assert.Len(t, pages[0].GetRows(), header+10)
	assert.Len(t, pages[1].GetRows(), header+10)
	assert.Len(t, pages[2].GetRows(), header+1+summary)
}
