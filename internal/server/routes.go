package server

import (
	"net/http"

	"github.com/gorilla/mux"
)

func (s Server) Router() http.Handler {
	r := mux.NewRouter()
	r.Use(s.maxBytesMw)

	api := r.PathPrefix("/api").Subrouter()
	api.HandleFunc("/add/items", s.productAdd()).Methods(http.MethodPost)
	api.HandleFunc("/view/items", s.productGetAll()).Methods(http.MethodGet)
	api.HandleFunc("/update/items/{productID}", s.productUpdate()).Methods(http.MethodPut)
	api.HandleFunc("/update/info/items/{productID}", s.productInfoUpdate()).Methods(http.MethodPut)
	api.HandleFunc("/delete/items/{productID}", s.productRemove()).Methods(http.MethodDelete)
	api.HandleFunc("/history", s.historyGetAll()).Methods(http.MethodGet)
	api.PathPrefix("").Handler(http.NotFoundHandler())

	r.HandleFunc("/", s.home()).Methods(http.MethodGet)

	// corsMw sits outside the router so preflight requests get answered
	// before method matching would reject them.
	return s.loggingMw(s.corsMw(r))
}
