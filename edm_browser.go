package main

import (
	"flag"
	"log"

	"github.com/mogaika/edm_browser/config"
	"github.com/mogaika/edm_browser/vfs"
	"github.com/mogaika/edm_browser/web"

	_ "github.com/mogaika/edm_browser/pack/edm"
)

func main() {
	var cfgPath string
	var flags config.Flags
	flag.StringVar(&cfgPath, "config", "", "Path to yaml config")
	flag.StringVar(&flags.Addr, "i", "", "Address of server (default :8000)")
	flag.StringVar(&flags.Dir, "dir", "", "Path to folder with edm files")
	flag.StringVar(&flags.Encoding, "encoding", "", "Text code page (default Windows 1251)")
	flag.StringVar(&flags.WebPath, "web", "", "Path to web resources (default web)")
	flag.Parse()

	var cfg config.Browser
	if cfgPath != "" {
		var err error
		if cfg, err = config.Load(cfgPath); err != nil {
			log.Fatal(err)
		}
	}
	cfg.Resolve(flags)

	if cfg.Dir == "" {
		flag.PrintDefaults()
		return
	}
	if err := cfg.Apply(); err != nil {
		log.Fatal(err)
	}

	if err := web.StartServer(cfg.Addr, vfs.NewDirectoryDriver(cfg.Dir), cfg.WebPath); err != nil {
		log.Fatal(err)
	}
}
