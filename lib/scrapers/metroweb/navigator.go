package metroweb

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"regexp"

	"metroweb-extractor/lib/textutil"

	"github.com/PuerkitoBio/goquery"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

var (
	// work-order identifiers look like 307-62136
	otRegex = regexp.MustCompile(`^\d{3}-\d{5}$`)

	ErrInvalidOT  = fmt.Errorf("work order number must match ddd-ddddd")
	ErrOTNotFound = fmt.Errorf("no VPE procedure found for this work order")
)

// ValidOT reports whether ot has the portal's work-order format.
// Validation happens before any navigation is attempted.
func ValidOT(ot string) bool {
	return otRegex.MatchString(ot)
}

// WorkOrder is an open VPE procedure: its summary and detail pages plus
// the instrument sub-pages it contains. Zero instruments is a valid
// state, not an error.
type WorkOrder struct {
	OT          string
	VPE         string
	Summary     *Document
	Detail      *Document
	Instruments []InstrumentHandle
}

// OpenWorkOrder searches the portal for ot, follows its VPE procedure
// link and enumerates the instrument sub-pages. Navigation is strictly
// sequential: the portal session is not safe for concurrent page loads.
func (c *Client) OpenWorkOrder(ctx context.Context, ot string) (*WorkOrder, error) {
	ctx, span := tracer.Start(ctx, "client:OpenWorkOrder")
	defer span.End()
	span.SetAttributes(attribute.String("ot", ot))

	if !ValidOT(ot) {
		span.SetStatus(codes.Error, ErrInvalidOT.Error())
		return nil, fmt.Errorf("%w: %q", ErrInvalidOT, ot)
	}

	results, err := c.searchOT(ctx, ot)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "work order search failed")
		return nil, err
	}

	vpeLinks := results.Links("tramiteVPE")
	if len(vpeLinks) == 0 {
		span.SetStatus(codes.Error, ErrOTNotFound.Error())
		return nil, fmt.Errorf("%w: %s", ErrOTNotFound, ot)
	}
	vpe := textutil.OnlyDigits(vpeLinks[0].Text)
	slog.DebugContext(ctx, "found VPE procedure", "ot", ot, "vpe", vpe)

	// opening the procedure binds it to the session; the summary and
	// detail JSPs render whatever procedure was opened last
	if _, err := c.getDocument(ctx, c.resolve(vpeLinks[0].Href)); err != nil {
		return nil, err
	}

	summary, err := c.getDocument(ctx, summaryPath)
	if err != nil {
		return nil, err
	}
	detail, err := c.getDocument(ctx, detailPath)
	if err != nil {
		return nil, err
	}

	instruments := instrumentHandles(summary)
	span.SetAttributes(attribute.Int("instruments", len(instruments)))
	slog.DebugContext(ctx, "enumerated instruments", "ot", ot, "count", len(instruments))

	return &WorkOrder{
		OT:          ot,
		VPE:         vpe,
		Summary:     summary,
		Detail:      detail,
		Instruments: instruments,
	}, nil
}

// searchOT submits the work-order search form and returns the results
// page.
func (c *Client) searchOT(ctx context.Context, ot string) (*Document, error) {
	doc, err := c.getDocument(ctx, searchPath)
	if err != nil {
		return nil, err
	}

	form := doc.doc.Find("form").FilterFunction(func(_ int, f *goquery.Selection) bool {
		return f.Find("input[name=numeroOT], input[name=nroOT]").Length() > 0
	}).First()

	fields := map[string]string{}
	action := searchPath
	otInput := "numeroOT"
	if form.Length() > 0 {
		form.Find("input[type=hidden]").Each(func(_ int, input *goquery.Selection) {
			name := input.AttrOr("name", "")
			if name != "" {
				fields[name] = input.AttrOr("value", "")
			}
		})
		otInput = inputName(form, "input[name=numeroOT], input[name=nroOT]", otInput)
		action = form.AttrOr("action", action)
	}
	fields[otInput] = ot

	res, err := c.Http.R().
		SetContext(ctx).
		SetFormData(fields).
		Post(c.resolve(action))
	if err != nil {
		return nil, fmt.Errorf("searching work order %s: %w", ot, err)
	}
	return ParseDocument(bytes.NewBuffer(res.Body()))
}

// instrumentHandles pulls the instrument sub-page links off the summary
// page, in document order.
func instrumentHandles(summary *Document) []InstrumentHandle {
	var out []InstrumentHandle
	seen := map[string]bool{}
	for _, a := range summary.Links("instrumentoDetalle.do") {
		id := instrumentId(a.Href)
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, InstrumentHandle{ID: id, Href: a.Href})
	}
	return out
}

func instrumentId(href string) string {
	link, err := url.Parse(href)
	if err != nil {
		return ""
	}
	return link.Query().Get("idInstrumento")
}

// InstrumentPage opens one instrument's detail page.
func (c *Client) InstrumentPage(ctx context.Context, h InstrumentHandle) (*Document, error) {
	return c.getDocument(ctx, fmt.Sprintf("%s?idInstrumento=%s", instrumentPath, url.QueryEscape(h.ID)))
}

// ModelPage opens an approved-model detail page by href.
func (c *Client) ModelPage(ctx context.Context, href string) (*Document, error) {
	return c.getDocument(ctx, c.resolve(href))
}
