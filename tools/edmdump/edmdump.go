package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/mogaika/edm_browser/config"
	"github.com/mogaika/edm_browser/pack/edm"
	"github.com/mogaika/edm_browser/utils"
	"github.com/mogaika/edm_browser/utils/gltfutils"
)

func dump(w io.Writer, v interface{}, format string) error {
	switch format {
	case "spew":
		utils.FDump(w, v)
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return errors.Wrapf(enc.Encode(v), "Failed to marshal json")
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return errors.Wrapf(err, "Failed to marshal yaml")
		}
		return errors.Wrapf(enc.Close(), "Failed to close yaml encoder")
	default:
		return errors.Errorf("Unknown format %q", format)
	}
	return nil
}

func exportGLTF(f *edm.File, path string) error {
	doc, err := f.ExportGLTF()
	if err != nil {
		return err
	}
	out, err := os.Create(path)
	if err != nil {
		return errors.Wrapf(err, "Failed to create %q", path)
	}
	if err := gltfutils.ExportBinary(out, doc); err != nil {
		out.Close()
		return errors.Wrapf(err, "Failed to write %q", path)
	}
	return errors.Wrapf(out.Close(), "Failed to close %q", path)
}

func main() {
	var format, gltfPath, encoding string
	var node int
	var types bool
	flag.StringVar(&format, "format", "spew", "Output format: spew, yaml or json")
	flag.StringVar(&gltfPath, "gltf", "", "Export the model as binary gltf into this file")
	flag.StringVar(&encoding, "encoding", config.DefaultEncoding.String(), "Text code page")
	flag.IntVar(&node, "node", -1, "Dump only this node, render nodes come with geometry")
	flag.BoolVar(&types, "types", false, "List the record tags the decoder understands and exit")
	flag.Parse()

	if types {
		for _, tag := range edm.NamedTypes() {
			fmt.Println(tag)
		}
		return
	}

	if flag.NArg() != 1 {
		fmt.Fprintf(os.Stderr, "usage: edmdump [flags] <file.edm>\n")
		flag.PrintDefaults()
		os.Exit(2)
	}

	cm, err := config.FindEncoding(encoding)
	if err != nil {
		log.Fatal(err)
	}

	data, err := os.ReadFile(flag.Arg(0))
	if err != nil {
		log.Fatal(err)
	}
	f, err := edm.Options{Encoding: cm}.Decode(data)
	if err != nil {
		log.Fatal(err)
	}

	if gltfPath != "" {
		if err := exportGLTF(f, gltfPath); err != nil {
			log.Fatal(err)
		}
		return
	}

	var v interface{} = f.Marshal()
	if node >= 0 {
		if v, err = f.MarshalNode(node); err != nil {
			log.Fatal(err)
		}
	}
	if err := dump(os.Stdout, v, format); err != nil {
		log.Fatal(err)
	}
}
