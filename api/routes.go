package api

import (
	"context"
	"net/http"
	"strings"

	"github.com/ONSdigital/dp-catalog-api/handlers"
	"github.com/ONSdigital/dp-catalog-api/model"
	"github.com/ONSdigital/dp-catalog-api/storage"
	"github.com/ONSdigital/log.go/v2/log"
	"github.com/gorilla/mux"
)

// idPattern restricts record ids in paths to decimal digits, so other
// segments fall through to the router's 404.
const idPattern = "{" + handlers.VarID + ":[0-9]+}"

// Setup registers a collection of routes for every record kind under
// prefix, plus a resources sub-collection on each parent kind for
// every kind that names it as parent.
//
func Setup(ctx context.Context, router *mux.Router, prefix string, m *model.Model, paging handlers.Paging) {
	prefix = strings.TrimSuffix(prefix, "/")

	for _, kind := range storage.Kinds {
		collection := m.Collection(kind)
		res := handlers.NewResource(collection, paging)

		base := prefix + "/" + kind.Name + "/"
		item := base + idPattern + "/"

		router.Path(base).Methods(http.MethodGet).HandlerFunc(res.DoList())
		router.Path(base).Methods(http.MethodPost).HandlerFunc(res.DoCreate())
		router.Path(item).Methods(http.MethodGet).HandlerFunc(res.DoGet())
		router.Path(item).Methods(http.MethodPut).HandlerFunc(res.DoMerge())
		router.Path(item).Methods(http.MethodPatch).HandlerFunc(res.DoPatch())
		router.Path(item).Methods(http.MethodDelete).HandlerFunc(res.DoDelete())

		for _, child := range kind.Children() {
			sub := handlers.NewSubResource(scope(m.Collection(child)), paging)
			path := item + "resources/"
			router.Path(path).Methods(http.MethodGet).HandlerFunc(sub.DoList())
			router.Path(path).Methods(http.MethodPost).HandlerFunc(sub.DoCreate())

			log.Info(ctx, "sub-collection routes registered", log.Data{"path": path, "kind": child.Name})
		}

		log.Info(ctx, "collection routes registered", log.Data{"path": base, "kind": kind.Name})
	}
}

func scope(c *model.Collection) func(int64) handlers.Collection {
	return func(parentID int64) handlers.Collection {
		return c.Scoped(parentID)
	}
}
