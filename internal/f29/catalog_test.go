package f29

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultCatalog(t *testing.T) {
	cat := DefaultCatalog()

	codes := []string{"502", "503", "509", "510", "511", "519", "520", "527", "528", "537", "538",
		"544", "547", "563", "595", "062", "077", "089", "115", "151", "758", "759", "779"}
	assert.Len(t, cat.Coded(), len(codes))
	for _, code := range codes {
		spec, ok := cat.ByCode(code)
		require.True(t, ok, "code %s missing", code)
		assert.Equal(t, "code"+code, spec.ID)
		assert.NotEmpty(t, spec.Labels, "code %s has no labels", code)
	}

	for _, id := range []string{FieldRUT, FieldPeriod, FieldFolio, FieldTaxpayerName, FieldTotalPayable} {
		_, ok := cat.Lookup(id)
		assert.True(t, ok, "field %s missing", id)
	}
	assert.Len(t, cat.Fields(), len(codes)+5)
}

func TestCatalog_Kinds(t *testing.T) {
	cat := DefaultCatalog()

	for _, code := range []string{"503", "509", "519", "527", "758"} {
		spec, _ := cat.ByCode(code)
		assert.Equal(t, KindCount, spec.Kind, "code %s", code)
	}
	spec, _ := cat.ByCode("115")
	assert.Equal(t, KindRate, spec.Kind)
	spec, _ = cat.ByCode("538")
	assert.Equal(t, KindAmount, spec.Kind)
}

func TestCatalog_LabelsAreFolded(t *testing.T) {
	cat := DefaultCatalog()

	assert.True(t, cat.matchesLabel("code538", "538 TOTAL DEBITOS 3.410.651"))
	assert.True(t, cat.matchesLabel("code511", Fold("CRÉD. IVA")))
	assert.False(t, cat.matchesLabel("code537", "TOTAL DEBITOS"))
}

func TestCatalog_LabelsDoNotOverlap(t *testing.T) {
	cat := DefaultCatalog()

	for _, a := range cat.Coded() {
		for _, label := range cat.foldedLabels(a.ID) {
			for _, b := range cat.Coded() {
				if a.ID == b.ID {
					continue
				}
				assert.False(t, cat.matchesLabel(b.ID, label),
					"label %q of %s also matches %s", label, a.ID, b.ID)
			}
		}
	}
}

func TestNewCatalog_IgnoresDuplicates(t *testing.T) {
	cat := NewCatalog([]FieldSpec{
		{ID: "code538", Code: "538", Kind: KindAmount, Labels: []string{"Total débitos"}},
		{ID: "code538", Code: "999", Kind: KindAmount},
	})

	assert.Len(t, cat.Fields(), 1)
	_, ok := cat.ByCode("999")
	assert.False(t, ok)
	assert.Equal(t, []string{"TOTAL DEBITOS"}, cat.foldedLabels("code538"))
}
