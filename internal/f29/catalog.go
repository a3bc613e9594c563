package f29

import "strings"

// Kind describes how a field's raw evidence is interpreted
type Kind int

const (
	KindAmount Kind = iota
	KindCount
	KindRate
	KindText
)

// String returns a string representation of the Kind
func (k Kind) String() string {
	switch k {
	case KindAmount:
		return "amount"
	case KindCount:
		return "count"
	case KindRate:
		return "rate"
	case KindText:
		return "text"
	default:
		return "unknown"
	}
}

// MarshalText lets Kind render as its name in JSON catalogs
func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// FieldSpec is one immutable catalog entry
type FieldSpec struct {
	ID          string   `json:"id"`
	Code        string   `json:"code,omitempty"`
	Kind        Kind     `json:"kind"`
	Description string   `json:"description"`
	Labels      []string `json:"labels,omitempty"`
}

// Non-coded field identifiers produced by the basic-info extractor
const (
	FieldRUT          = "rut"
	FieldPeriod       = "period"
	FieldFolio        = "folio"
	FieldTaxpayerName = "taxpayer_name"
	FieldTotalPayable = "total_payable"
)

// Catalog is the read-only registry of every field the engine can recover.
// Label synonyms are folded once at construction.
type Catalog struct {
	fields []FieldSpec
	byID   map[string]int
	byCode map[string]int
	folded map[string][]string
}

// NewCatalog builds a catalog from specs. Later duplicates of an ID are ignored.
func NewCatalog(specs []FieldSpec) *Catalog {
	c := &Catalog{
		byID:   make(map[string]int, len(specs)),
		byCode: make(map[string]int, len(specs)),
		folded: make(map[string][]string, len(specs)),
	}
	for _, spec := range specs {
		if _, dup := c.byID[spec.ID]; dup {
			continue
		}
		spec.Labels = append([]string(nil), spec.Labels...)
		idx := len(c.fields)
		c.fields = append(c.fields, spec)
		c.byID[spec.ID] = idx
		if spec.Code != "" {
			c.byCode[spec.Code] = idx
		}
		labels := make([]string, 0, len(spec.Labels))
		for _, l := range spec.Labels {
			if f := strings.TrimSpace(Fold(l)); f != "" {
				labels = append(labels, f)
			}
		}
		c.folded[spec.ID] = labels
	}
	return c
}

// Fields returns every entry in catalog order
func (c *Catalog) Fields() []FieldSpec {
	out := make([]FieldSpec, len(c.fields))
	copy(out, c.fields)
	return out
}

// Coded returns the entries that carry an official form code
func (c *Catalog) Coded() []FieldSpec {
	var out []FieldSpec
	for _, f := range c.fields {
		if f.Code != "" {
			out = append(out, f)
		}
	}
	return out
}

// Lookup finds a field by ID
func (c *Catalog) Lookup(id string) (FieldSpec, bool) {
	idx, ok := c.byID[id]
	if !ok {
		return FieldSpec{}, false
	}
	return c.fields[idx], true
}

// ByCode finds a field by its form code
func (c *Catalog) ByCode(code string) (FieldSpec, bool) {
	idx, ok := c.byCode[strings.TrimSpace(code)]
	if !ok {
		return FieldSpec{}, false
	}
	return c.fields[idx], true
}

// foldedLabels returns the folded synonyms for id
func (c *Catalog) foldedLabels(id string) []string {
	return c.folded[id]
}

// matchesLabel reports whether folded text contains any synonym of id
func (c *Catalog) matchesLabel(id, folded string) bool {
	for _, l := range c.folded[id] {
		if strings.Contains(folded, l) {
			return true
		}
	}
	return false
}

func codeID(code string) string {
	return "code" + code
}

// DefaultCatalog returns the F29 field set
func DefaultCatalog() *Catalog {
	return NewCatalog(defaultFields)
}

var defaultFields = []FieldSpec{
	{ID: codeID("502"), Code: "502", Kind: KindAmount, Description: "Débitos facturas emitidas",
		Labels: []string{"DÉBITOS FACTURAS EMITIDAS", "IVA FACTURAS EMITIDAS"}},
	{ID: codeID("503"), Code: "503", Kind: KindCount, Description: "Cantidad de facturas emitidas",
		Labels: []string{"CANTIDAD DE FACTURAS EMITIDAS", "CANT. FACTURAS EMITIDAS"}},
	{ID: codeID("509"), Code: "509", Kind: KindCount, Description: "Cantidad de notas de crédito emitidas",
		Labels: []string{"CANTIDAD DE NOTAS DE CRÉDITO EMITIDAS", "CANT. NOTAS DE CRÉDITO EMITIDAS"}},
	{ID: codeID("510"), Code: "510", Kind: KindAmount, Description: "Débitos notas de crédito emitidas",
		Labels: []string{"DÉBITOS NOTAS DE CRÉDITO EMITIDAS", "IVA NOTAS DE CRÉDITO EMITIDAS"}},
	{ID: codeID("511"), Code: "511", Kind: KindAmount, Description: "Crédito IVA por documentos electrónicos",
		Labels: []string{"CRÉD. IVA", "CRÉDITO IVA POR DOCUMENTOS ELECTRÓNICOS"}},
	{ID: codeID("519"), Code: "519", Kind: KindCount, Description: "Cantidad de facturas recibidas",
		Labels: []string{"CANTIDAD DE FACTURAS RECIBIDAS", "CANT. FACTURAS RECIBIDAS"}},
	{ID: codeID("520"), Code: "520", Kind: KindAmount, Description: "Crédito facturas recibidas",
		Labels: []string{"CRÉDITO FACTURAS RECIBIDAS", "IVA FACTURAS RECIBIDAS"}},
	{ID: codeID("527"), Code: "527", Kind: KindCount, Description: "Cantidad de notas de crédito recibidas",
		Labels: []string{"CANTIDAD DE NOTAS DE CRÉDITO RECIBIDAS", "CANT. NOTAS DE CRÉDITO RECIBIDAS"}},
	{ID: codeID("528"), Code: "528", Kind: KindAmount, Description: "Crédito notas de crédito recibidas",
		Labels: []string{"CRÉDITO NOTAS DE CRÉDITO RECIBIDAS", "IVA NOTAS DE CRÉDITO RECIBIDAS"}},
	{ID: codeID("537"), Code: "537", Kind: KindAmount, Description: "Total créditos",
		Labels: []string{"TOTAL CRÉDITOS"}},
	{ID: codeID("538"), Code: "538", Kind: KindAmount, Description: "Total débitos",
		Labels: []string{"TOTAL DÉBITOS"}},
	{ID: codeID("544"), Code: "544", Kind: KindAmount, Description: "Recuperación impuesto específico diésel",
		Labels: []string{"RECUPERACIÓN IMPUESTO ESPECÍFICO DIÉSEL", "IMPUESTO ESPECÍFICO DIÉSEL"}},
	{ID: codeID("547"), Code: "547", Kind: KindAmount, Description: "Total determinado",
		Labels: []string{"TOTAL DETERMINADO"}},
	{ID: codeID("563"), Code: "563", Kind: KindAmount, Description: "Base imponible",
		Labels: []string{"BASE IMPONIBLE", "INGRESOS BRUTOS"}},
	{ID: codeID("595"), Code: "595", Kind: KindAmount, Description: "Sub total impuesto determinado anverso",
		Labels: []string{"SUB TOTAL IMP. DETERMINADO", "SUBTOTAL IMPUESTO DETERMINADO"}},
	{ID: codeID("062"), Code: "062", Kind: KindAmount, Description: "PPM neto determinado",
		Labels: []string{"PPM NETO DETERMINADO"}},
	{ID: codeID("077"), Code: "077", Kind: KindAmount, Description: "Remanente de crédito fiscal",
		Labels: []string{"REMANENTE DE CRÉDITO FISCAL", "REMANENTE CRÉDITO FISCAL"}},
	{ID: codeID("089"), Code: "089", Kind: KindAmount, Description: "IVA determinado",
		Labels: []string{"IVA DETERMINADO", "IMP. DETERM. IVA"}},
	{ID: codeID("115"), Code: "115", Kind: KindRate, Description: "Tasa PPM primera categoría",
		Labels: []string{"TASA PPM"}},
	{ID: codeID("151"), Code: "151", Kind: KindAmount, Description: "Retención impuesto art. 42 N°2",
		Labels: []string{"RETENCIÓN ART. 42", "RETENCIÓN HONORARIOS"}},
	{ID: codeID("758"), Code: "758", Kind: KindCount, Description: "Cantidad de comprobantes de pago electrónico",
		Labels: []string{"CANTIDAD DE COMPROBANTES DE PAGO ELECTRÓNICO", "CANT. COMPROBANTES PAGO ELECTRÓNICO"}},
	{ID: codeID("759"), Code: "759", Kind: KindAmount, Description: "Débitos comprobantes de pago electrónico",
		Labels: []string{"DÉBITOS COMPROBANTES DE PAGO ELECTRÓNICO", "MONTO COMPROBANTES PAGO ELECTRÓNICO"}},
	{ID: codeID("779"), Code: "779", Kind: KindAmount, Description: "Monto IVA postergado",
		Labels: []string{"IVA POSTERGADO"}},
	{ID: FieldRUT, Kind: KindText, Description: "RUT del contribuyente"},
	{ID: FieldPeriod, Kind: KindText, Description: "Período tributario (YYYYMM)"},
	{ID: FieldFolio, Kind: KindText, Description: "Folio del formulario"},
	{ID: FieldTaxpayerName, Kind: KindText, Description: "Razón social"},
	{ID: FieldTotalPayable, Kind: KindAmount, Description: "Total a pagar"},
}
