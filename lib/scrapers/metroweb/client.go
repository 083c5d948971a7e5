package metroweb

import (
	"bytes"
	"context"
	"fmt"
	"net/http/cookiejar"
	"net/url"
	"time"

	"metroweb-extractor/lib/restyutil"
	"metroweb-extractor/lib/textutil"

	"github.com/PuerkitoBio/goquery"
	"github.com/go-resty/resty/v2"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
)

var tracer = otel.Tracer("scrapers/metroweb")

// ErrAuth means the portal rejected the credentials. Fatal for the run:
// retrying with the same credentials cannot succeed.
var ErrAuth = fmt.Errorf("MetroWeb rejected the login")

const (
	defaultBaseUrl = "https://app.inti.gob.ar"
	loginPath      = "/MetroWeb/pages/ingreso.jsp"
	searchPath     = "/MetroWeb/entrarPML.do"
	summaryPath    = "/MetroWeb/pages/tramiteVPE/resumen.jsp"
	detailPath     = "/MetroWeb/pages/tramiteVPE/detalle.jsp"
	instrumentPath = "/MetroWeb/instrumentoDetalle.do"
)

type Client struct {
	BaseUrl *url.URL
	Http    *resty.Client
}

type ClientOptions struct {
	// defaults to the production portal
	BaseUrl string
	// dump directory for HTTP exchanges; nil disables dumping
	Dump restyutil.InstrumentOutput
}

func NewClient(ctx context.Context, opts ClientOptions) (*Client, error) {
	if opts.BaseUrl == "" {
		opts.BaseUrl = defaultBaseUrl
	}
	baseUrl, err := url.Parse(opts.BaseUrl)
	if err != nil {
		return nil, err
	}

	client := resty.New()
	client.SetBaseURL(opts.BaseUrl)
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, err
	}
	client.SetCookieJar(jar)
	client.SetHeader("user-agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/123.0.0.0 Safari/537.36")
	client.SetRedirectPolicy(resty.DomainCheckRedirectPolicy(baseUrl.Hostname()))
	client.SetTimeout(time.Second * 30)

	restyutil.InstrumentClient(client, tracer, opts.Dump)

	return &Client{
		BaseUrl: baseUrl,
		Http:    client,
	}, nil
}

// getDocument fetches a page and parses it. Exactly one attempt: portal
// state is navigational, retries risk duplicate navigation.
func (c *Client) getDocument(ctx context.Context, path string) (*Document, error) {
	res, err := c.Http.R().
		SetContext(ctx).
		Get(path)
	if err != nil {
		return nil, fmt.Errorf("fetching %s: %w", path, err)
	}
	return ParseDocument(bytes.NewBuffer(res.Body()))
}

// Login authenticates the session. The portal serves a plain JSP form;
// hidden inputs are carried over as-is.
func (c *Client) Login(ctx context.Context, username, password string) error {
	ctx, span := tracer.Start(ctx, "client:Login")
	defer span.End()

	doc, err := c.getDocument(ctx, loginPath)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to fetch login page")
		return err
	}

	form := doc.doc.Find("form").FilterFunction(func(_ int, f *goquery.Selection) bool {
		return f.Find("input[type=password]").Length() > 0
	}).First()
	if form.Length() == 0 {
		span.SetStatus(codes.Error, "no login form on page")
		return fmt.Errorf("could not find the login form")
	}

	fields := map[string]string{}
	form.Find("input[type=hidden]").Each(func(_ int, input *goquery.Selection) {
		name := input.AttrOr("name", "")
		if name != "" {
			fields[name] = input.AttrOr("value", "")
		}
	})
	fields[inputName(form, "input[type=text]", "usuario")] = username
	fields[inputName(form, "input[type=password]", "contrasena")] = password

	action := c.resolve(form.AttrOr("action", loginPath))
	res, err := c.Http.R().
		SetContext(ctx).
		SetFormData(fields).
		Post(action)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "login request failed")
		return err
	}

	after, err := ParseDocument(bytes.NewBuffer(res.Body()))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to parse post-login page")
		return err
	}
	// a password box on the landing page means we bounced back to the
	// login form
	if after.doc.Find("input[type=password]").Length() > 0 {
		span.SetStatus(codes.Error, ErrAuth.Error())
		return ErrAuth
	}

	return nil
}

// inputName returns the name attribute of the form's first input
// matching selector, defaulting to fallback when unset (portal builds
// have renamed the boxes over time).
func inputName(form *goquery.Selection, selector, fallback string) string {
	name := form.Find(selector).First().AttrOr("name", "")
	if name == "" {
		return fallback
	}
	return name
}

// resolve turns a possibly-relative portal href into an absolute URL on
// the session's host.
func (c *Client) resolve(href string) string {
	ref, err := url.Parse(textutil.CleanSingleLine(href))
	if err != nil {
		return href
	}
	return c.BaseUrl.ResolveReference(ref).String()
}
