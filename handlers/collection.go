package handlers

// Collection handlers serve the generic record protocol: paginated
// listing, and get/create/merge/patch/delete of single records, for any
// record kind the model exposes.

import (
	"context"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/ONSdigital/dp-catalog-api/attributes"
	"github.com/ONSdigital/dp-catalog-api/model"
	"github.com/ONSdigital/dp-catalog-api/pagination"
	"github.com/ONSdigital/log.go/v2/log"
	"github.com/gorilla/mux"
)

// Generate mocks of dependencies
//
//go:generate moq -rm -pkg handlers_test -out moq_collection_test.go . Collection

// Collection describes what we expect a model collection to implement.
//
type Collection interface {
	List(ctx context.Context, p pagination.Params) (*model.Page, error)
	Get(ctx context.Context, id int64) (*attributes.Bag, error)
	Create(ctx context.Context, body []byte) (*attributes.Bag, error)
	Merge(ctx context.Context, id int64, body []byte) error
	Patch(ctx context.Context, id int64, body []byte) error
	Delete(ctx context.Context, id int64) error
}

// Route variable holding the record id.
const VarID = "id"

// Paging holds the page sizes list handlers work with.
type Paging struct {
	DefaultSize int
	MaxSize     int
}

// Resource implements the handlers of one collection.
//
type Resource struct {
	collection Collection
	paging     Paging
}

// NewResource returns handlers for collection.
//
func NewResource(collection Collection, paging Paging) *Resource {
	return &Resource{
		collection: collection,
		paging:     paging,
	}
}

// DoList is an http handler listing one page of the collection, with a
// Link header pointing at the neighbouring pages.
//
func (res *Resource) DoList() http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		list(req.Context(), w, req, res.collection, res.paging, log.Data{})
	}
}

// DoGet is an http handler returning one record.
//
func (res *Resource) DoGet() http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		ctx := req.Context()
		logData := log.Data{"path": req.URL.Path}

		id, ok := recordID(ctx, w, req, logData)
		if !ok {
			return
		}

		doc, err := res.collection.Get(ctx, id)
		if err != nil {
			handleError(ctx, "cannot get record", w, err, logData)
			return
		}
		okResponse(ctx, w, doc)
	}
}

// DoCreate is an http handler creating a record from the request body.
// It answers 200 with the stored record.
//
func (res *Resource) DoCreate() http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		ctx := req.Context()
		logData := log.Data{"path": req.URL.Path}

		body, ok := readBody(ctx, w, req, logData)
		if !ok {
			return
		}

		doc, err := res.collection.Create(ctx, body)
		if err != nil {
			handleError(ctx, "cannot create record", w, err, logData)
			return
		}
		okResponse(ctx, w, doc)
	}
}

// DoMerge is an http handler for PUT: the body's keys are merged into
// the record's attributes.
//
func (res *Resource) DoMerge() http.HandlerFunc {
	return res.doUpdate("cannot update record", res.collection.Merge)
}

// DoPatch is an http handler for PATCH documents.
//
func (res *Resource) DoPatch() http.HandlerFunc {
	return res.doUpdate("cannot patch record", res.collection.Patch)
}

func (res *Resource) doUpdate(event string, update func(ctx context.Context, id int64, body []byte) error) http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		ctx := req.Context()
		logData := log.Data{"path": req.URL.Path, "method": req.Method}

		id, ok := recordID(ctx, w, req, logData)
		if !ok {
			return
		}
		body, ok := readBody(ctx, w, req, logData)
		if !ok {
			return
		}

		if err := update(ctx, id, body); err != nil {
			handleError(ctx, event, w, err, logData)
			return
		}
		w.WriteHeader(http.StatusOK)
	}
}

// DoDelete is an http handler removing one record.
//
func (res *Resource) DoDelete() http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		ctx := req.Context()
		logData := log.Data{"path": req.URL.Path}

		id, ok := recordID(ctx, w, req, logData)
		if !ok {
			return
		}

		if err := res.collection.Delete(ctx, id); err != nil {
			handleError(ctx, "cannot delete record", w, err, logData)
			return
		}
		log.Info(ctx, "record deleted", logData)
		w.WriteHeader(http.StatusOK)
	}
}

// SubResource implements the handlers of a child collection narrowed to
// the parent named in the path.
//
type SubResource struct {
	scope  func(parentID int64) Collection
	paging Paging
}

// NewSubResource returns handlers listing the collection scope returns
// for the parent id in the path.
//
func NewSubResource(scope func(parentID int64) Collection, paging Paging) *SubResource {
	return &SubResource{
		scope:  scope,
		paging: paging,
	}
}

// DoList is an http handler listing one page of the parent's children.
//
func (sub *SubResource) DoList() http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		ctx := req.Context()
		logData := log.Data{"path": req.URL.Path}

		parentID, ok := recordID(ctx, w, req, logData)
		if !ok {
			return
		}
		list(ctx, w, req, sub.scope(parentID), sub.paging, logData)
	}
}

// DoCreate answers 501: records cannot be created through a
// sub-collection yet.
//
func (sub *SubResource) DoCreate() http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		handleError(req.Context(), MsgNotImplemented, w, model.ErrNotImplemented, log.Data{"path": req.URL.Path})
	}
}

func list(ctx context.Context, w http.ResponseWriter, req *http.Request, collection Collection, paging Paging, logData log.Data) {
	logData["query"] = req.URL.RawQuery

	params, err := pagination.Parse(req.URL.Query(), paging.DefaultSize, paging.MaxSize)
	if err != nil {
		handleError(ctx, "invalid pagination parameters", w, err, logData)
		return
	}

	page, err := collection.List(ctx, params)
	if err != nil {
		handleError(ctx, "cannot list records", w, err, logData)
		return
	}

	if link := page.Window.LinkHeader(requestURL(req)); link != "" {
		w.Header().Set("Link", link)
	}
	okResponse(ctx, w, page.Items)
}

// recordID reads the id route variable. Ids that are not integers (or
// do not fit one) cannot name a record, so they are reported as 404.
func recordID(ctx context.Context, w http.ResponseWriter, req *http.Request, logData log.Data) (int64, bool) {
	raw := mux.Vars(req)[VarID]
	logData[VarID] = raw

	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		logData["setting_response_status"] = http.StatusNotFound
		log.Error(ctx, MsgInvalidID, err, logData)
		errorResponse(ctx, w, http.StatusNotFound, MsgInvalidID)
		return 0, false
	}
	return id, true
}

func readBody(ctx context.Context, w http.ResponseWriter, req *http.Request, logData log.Data) ([]byte, bool) {
	body, err := io.ReadAll(req.Body)
	if err != nil {
		logData["setting_response_status"] = http.StatusInternalServerError
		log.Error(ctx, MsgCannotReadBody, err, logData)
		errorResponse(ctx, w, http.StatusInternalServerError, MsgCannotReadBody)
		return nil, false
	}
	return body, true
}

// requestURL rebuilds the absolute URL the client used, honouring a
// proxy's X-Forwarded-Proto and X-Forwarded-Host. Forwarded values that
// are not a plain http(s) scheme or host are ignored.
func requestURL(req *http.Request) *url.URL {
	scheme := "http"
	if req.TLS != nil {
		scheme = "https"
	}
	if proto := strings.ToLower(firstValue(req.Header.Get("X-Forwarded-Proto"))); proto == "http" || proto == "https" {
		scheme = proto
	}
	host := req.Host
	if fwd := firstValue(req.Header.Get("X-Forwarded-Host")); fwd != "" && !strings.ContainsAny(fwd, invalidHostChars) {
		host = fwd
	}

	return &url.URL{
		Scheme:   scheme,
		Host:     host,
		Path:     req.URL.Path,
		RawQuery: req.URL.RawQuery,
	}
}

// invalidHostChars cannot appear in a host[:port] and would break the
// Link header if echoed into it.
const invalidHostChars = "<>\"'\\/ ;,@?#"

// firstValue returns the first entry of a comma separated header value,
// as appended by a chain of proxies.
func firstValue(v string) string {
	first, _, _ := strings.Cut(v, ",")
	return strings.TrimSpace(first)
}
