package web

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/pkg/errors"

	"github.com/mogaika/edm_browser/config"
	"github.com/mogaika/edm_browser/pack"
	"github.com/mogaika/edm_browser/pack/edm"
	"github.com/mogaika/edm_browser/status"
	"github.com/mogaika/edm_browser/utils/gltfutils"
	"github.com/mogaika/edm_browser/vfs"
	"github.com/mogaika/edm_browser/webutils"
)

func getEdm(file string) (*edm.File, error) {
	data, err := pack.GetInstanceHandler(ServerDirectory, file)
	if err != nil {
		if kind := edm.KindOf(err); kind != "" {
			offset, _ := edm.OffsetOf(err)
			status.Error("%s: %s at 0x%x", file, kind, offset)
		} else {
			status.Error("%s: %v", file, err)
		}
		return nil, err
	}
	f, ok := data.(*edm.File)
	if !ok {
		return nil, fmt.Errorf("File %s is not an edm model", file)
	}
	st := f.Stats()
	status.Info("%s: v%d, %d nodes, %d materials", file, f.Version, len(f.Nodes), st.Materials)
	return f, nil
}

func HandlerAjaxPack(w http.ResponseWriter, r *http.Request) {
	if files, err := pack.List(ServerDirectory); err != nil {
		webutils.WriteError(w, err)
	} else {
		webutils.WriteJson(w, files)
	}
}

func HandlerAjaxEncodings(w http.ResponseWriter, r *http.Request) {
	webutils.WriteJson(w, map[string]interface{}{
		"current":   config.GetEncoding().String(),
		"encodings": config.ListEncodings(),
	})
}

func HandlerAjaxPackFile(w http.ResponseWriter, r *http.Request) {
	file := mux.Vars(r)["file"]
	if f, err := getEdm(file); err != nil {
		webutils.WriteError(w, err)
	} else {
		webutils.WriteJson(w, f.Marshal())
	}
}

func HandlerAjaxPackFileParam(w http.ResponseWriter, r *http.Request) {
	file := mux.Vars(r)["file"]
	param := mux.Vars(r)["param"]
	f, err := getEdm(file)
	if err != nil {
		webutils.WriteError(w, err)
		return
	}
	id, err := strconv.Atoi(param)
	if err != nil {
		webutils.WriteError(w, fmt.Errorf("param '%s' is not integer", param))
		return
	}
	if node, err := f.MarshalNode(id); err != nil {
		webutils.WriteError(w, err)
	} else {
		webutils.WriteJson(w, node)
	}
}

func HandlerDumpPackFile(w http.ResponseWriter, r *http.Request) {
	file := mux.Vars(r)["file"]
	f, err := vfs.GetFile(ServerDirectory, file)
	if err != nil {
		webutils.WriteError(w, err)
		return
	}

	if reader, err := vfs.OpenReader(f); err == nil {
		defer f.Close()
		webutils.WriteFile(w, reader, file)
	} else {
		webutils.WriteError(w, errors.Wrapf(err, "Error getting file reader"))
	}
}

// HandlerActionPackFileParam runs an export. param selects a node for node level
// actions, whole file actions take "-".
func HandlerActionPackFileParam(w http.ResponseWriter, r *http.Request) {
	file := mux.Vars(r)["file"]
	param := mux.Vars(r)["param"]
	action := mux.Vars(r)["action"]
	f, err := getEdm(file)
	if err != nil {
		webutils.WriteError(w, err)
		return
	}

	switch action {
	case "gltf":
		doc, err := f.ExportGLTF()
		if err != nil {
			webutils.WriteError(w, errors.Wrapf(err, "Failed to export gltf"))
			return
		}
		webutils.WriteFileHeaders(w, file+".glb")
		if err := gltfutils.ExportBinary(w, doc); err != nil {
			webutils.WriteError(w, errors.Wrapf(err, "Failed to encode gltf"))
		}
	case "yaml":
		if param == "-" {
			webutils.WriteYamlFile(w, f.Marshal(), file)
			return
		}
		id, err := strconv.Atoi(param)
		if err != nil {
			webutils.WriteError(w, fmt.Errorf("param '%s' is not integer", param))
			return
		}
		if node, err := f.MarshalNode(id); err != nil {
			webutils.WriteError(w, err)
		} else {
			webutils.WriteYamlFile(w, node, fmt.Sprintf("%s-%d", file, id))
		}
	default:
		webutils.WriteError(w, fmt.Errorf("Unknown action %q", action))
	}
}
