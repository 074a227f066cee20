package melt

import (
	"context"

	"github.com/gyeh/pricemelt/internal/banner"
	"github.com/gyeh/pricemelt/internal/model"
	"github.com/gyeh/pricemelt/internal/normalize"
	"github.com/gyeh/pricemelt/internal/semantics"
	"github.com/gyeh/pricemelt/internal/table"
	"github.com/gyeh/pricemelt/internal/vocab"
)

// groupFields are identifiers that wide tables may scope to a payer/plan.
var groupFields = []vocab.Field{
	vocab.FieldNegotiatedAlgorithm,
	vocab.FieldMethodology,
	vocab.FieldEstimatedAmount,
	vocab.FieldNotes,
}

type priceCol struct {
	idx     int
	kind    string
	percent bool
	group   semantics.Group
	scoped  map[vocab.Field]int
}

// plan is the per-table column layout, compiled once from a HeaderMap.
type plan struct {
	vocab    *vocab.Vocabulary
	prices   []priceCol
	slots    []semantics.CodeSlot
	typeFall int
	fields   map[vocab.Field]int
	metadata string
	src      Source
}

func compile(v *vocab.Vocabulary, hm *semantics.HeaderMap, blob banner.Blob, src Source) *plan {
	p := &plan{
		vocab:    v,
		slots:    hm.CodeSlots(),
		typeFall: -1,
		fields:   make(map[vocab.Field]int),
		metadata: blob.JSON(),
		src:      src,
	}
	for _, s := range p.slots {
		if s.Slot == 0 && s.TypeCol >= 0 {
			p.typeFall = s.TypeCol
		}
	}
	for _, f := range vocab.Fields() {
		if c, ok := hm.Best(f); ok {
			p.fields[f] = c.Index
		}
	}

	for _, c := range hm.PriceFacts() {
		pc := priceCol{
			idx:     c.Index,
			kind:    c.Role.PriceKind,
			percent: c.Role.PriceKind == model.PriceNegotiatedPercentage,
			group:   c.Role.Group(),
		}
		if hm.Variant() == semantics.Wide && c.Role.Grouped() {
			pc.scoped = make(map[vocab.Field]int)
			for _, f := range groupFields {
				if gc, ok := hm.GroupIdentifier(f, pc.group); ok {
					pc.scoped[f] = gc.Index
				}
			}
		}
		p.prices = append(p.prices, pc)
	}
	return p
}

type chunk struct {
	rows    []model.LongRow
	dropped int64
	unclean int64
	reasons map[string]int64
}

func (p *plan) meltRows(ctx context.Context, rows [][]string) (chunk, error) {
	c := chunk{
		rows:    make([]model.LongRow, 0, len(rows)*len(p.prices)),
		reasons: make(map[string]int64),
	}
	for i, row := range rows {
		if i%ctxCheckEvery == 0 {
			if err := ctx.Err(); err != nil {
				return chunk{}, err
			}
		}
		p.meltRow(row, &c)
	}
	return c, nil
}

func (p *plan) meltRow(row []string, c *chunk) {
	code, codeType, code2, code2Type := p.codes(row)
	base := model.LongRow{
		HospitalName:           p.src.HospitalName,
		Code:                   code,
		CodeType:               codeType,
		Code2:                  code2,
		Code2Type:              code2Type,
		PayerName:              p.text(row, vocab.FieldPayer),
		PlanName:               p.text(row, vocab.FieldPlan),
		BillingClass:           p.text(row, vocab.FieldBillingClass),
		Setting:                p.text(row, vocab.FieldSetting),
		Currency:               p.text(row, vocab.FieldCurrency),
		EffectiveDate:          normalize.ISODate(p.text(row, vocab.FieldEffectiveDate)),
		ExpiresOn:              normalize.ISODate(p.text(row, vocab.FieldExpiresOn)),
		Description:            p.text(row, vocab.FieldDescription),
		Modifiers:              p.text(row, vocab.FieldModifiers),
		DrugUnitOfMeasurement:  p.text(row, vocab.FieldDrugUnit),
		DrugTypeOfMeasurement:  p.text(row, vocab.FieldDrugType),
		NegotiatedAlgorithm:    p.text(row, vocab.FieldNegotiatedAlgorithm),
		Methodology:            p.text(row, vocab.FieldMethodology),
		AdditionalGenericNotes: p.text(row, vocab.FieldNotes),
		EstimatedAmount:        p.amount(row, p.column(vocab.FieldEstimatedAmount)),
		Metadata:               p.metadata,
		SourceFile:             p.src.File,
	}

	for _, pc := range p.prices {
		raw := table.Cell(row, pc.idx)
		amount, ok := normalize.CleanAmount(p.vocab, raw, pc.percent)
		if !ok && !p.vocab.IsNull(raw) {
			c.unclean++
		}

		var reason string
		switch {
		case code == "":
			reason = DropMissingCode
		case codeType == "":
			reason = DropMissingCodeType
		case !ok:
			reason = DropMissingAmount
		}
		if reason != "" {
			c.dropped++
			c.reasons[reason]++
			continue
		}

		out := base
		out.PriceType = pc.kind
		out.PriceAmount = amount
		if out.PayerName == "" {
			out.PayerName = pc.group.Payer
		}
		if out.PlanName == "" {
			out.PlanName = pc.group.Plan
		}
		if pc.scoped != nil {
			p.applyScoped(&out, row, pc)
		}
		c.rows = append(c.rows, out)
	}
}

// applyScoped overrides table-wide identifiers with the ones that belong
// to the price column's payer/plan group.
func (p *plan) applyScoped(out *model.LongRow, row []string, pc priceCol) {
	for f, idx := range pc.scoped {
		if f == vocab.FieldEstimatedAmount {
			if est := p.amount(row, idx); est != nil {
				out.EstimatedAmount = est
			}
			continue
		}
		v := p.cell(row, idx)
		if v == "" {
			continue
		}
		switch f {
		case vocab.FieldNegotiatedAlgorithm:
			out.NegotiatedAlgorithm = v
		case vocab.FieldMethodology:
			out.Methodology = v
		case vocab.FieldNotes:
			out.AdditionalGenericNotes = v
		}
	}
}

// codes coalesces code slots: numbered slots ascending, then the
// slot-less column. Code and code type are each the first non-blank value
// across the slots, independently. The secondary code is the next
// non-blank slot after the chosen code, with that slot's own type.
func (p *plan) codes(row []string) (code, codeType, code2, code2Type string) {
	chosen := false
	for _, s := range p.slots {
		v := p.code(row, s.CodeCol)
		if v == "" {
			continue
		}
		if !chosen {
			chosen = true
			code = v
			continue
		}
		code2, code2Type = v, p.codeType(row, s)
		break
	}
	for _, s := range p.slots {
		if v := p.cell(row, s.TypeCol); v != "" {
			codeType = p.vocab.CodeType(v)
			break
		}
	}
	return code, codeType, code2, code2Type
}

func (p *plan) code(row []string, idx int) string {
	if idx < 0 {
		return ""
	}
	v := normalize.CleanCode(table.Cell(row, idx))
	if p.vocab.IsNull(v) {
		return ""
	}
	return v
}

func (p *plan) codeType(row []string, s semantics.CodeSlot) string {
	v := p.cell(row, s.TypeCol)
	if v == "" && p.typeFall >= 0 && p.typeFall != s.TypeCol {
		v = p.cell(row, p.typeFall)
	}
	return p.vocab.CodeType(v)
}

func (p *plan) column(f vocab.Field) int {
	if idx, ok := p.fields[f]; ok {
		return idx
	}
	return -1
}

func (p *plan) text(row []string, f vocab.Field) string {
	return p.cell(row, p.column(f))
}

// cell returns a trimmed, whitespace-collapsed value; null sentinels
// become "".
func (p *plan) cell(row []string, idx int) string {
	if idx < 0 {
		return ""
	}
	v := table.Cell(row, idx)
	if p.vocab.IsNull(v) {
		return ""
	}
	return normalize.CleanName(v)
}

func (p *plan) amount(row []string, idx int) *float64 {
	if idx < 0 {
		return nil
	}
	f, ok := normalize.CleanAmount(p.vocab, table.Cell(row, idx), false)
	if !ok {
		return nil
	}
	return &f
}
