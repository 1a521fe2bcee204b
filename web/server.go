package web

import (
	"log"
	"net/http"
	"os"
	"path"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"

	"github.com/mogaika/edm_browser/status"
	"github.com/mogaika/edm_browser/vfs"
)

var ServerDirectory vfs.Directory

func NewRouter(d vfs.Directory, webPath string) *mux.Router {
	ServerDirectory = d

	r := mux.NewRouter()
	r.HandleFunc("/action/{file}/{param}/{action}", HandlerActionPackFileParam)
	r.HandleFunc("/json/pack/{file}/{param}", HandlerAjaxPackFileParam)
	r.HandleFunc("/json/pack/{file}", HandlerAjaxPackFile)
	r.HandleFunc("/json/pack", HandlerAjaxPack)
	r.HandleFunc("/json/encodings", HandlerAjaxEncodings)
	r.HandleFunc("/dump/pack/{file}", HandlerDumpPackFile)
	r.HandleFunc("/ws/status", status.ServeWs)

	r.PathPrefix("/").Handler(http.FileServer(http.Dir(path.Join(webPath, "data"))))
	return r
}

func StartServer(addr string, d vfs.Directory, webPath string) error {
	r := NewRouter(d, webPath)

	h := handlers.LoggingHandler(os.Stdout, handlers.RecoveryHandler()(r))

	log.Printf("[web] Starting server %v", addr)

	return http.ListenAndServe(addr, h)
}
