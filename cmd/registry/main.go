// Package main: registry service.
//
// The registry is the sole writer to the authoritative ledger. The DB used by this microservice only serves
// read requests of anchor records; the anchorer owns the writes to it, so both services should point at the
// same database.
package main

import (
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/bhoomi/landreg/lib/config"
	"github.com/bhoomi/landreg/lib/docstore"
	"github.com/bhoomi/landreg/lib/docstore/ipfs"
	"github.com/bhoomi/landreg/lib/docstore/memstore"
	"github.com/bhoomi/landreg/lib/ledger"
	"github.com/bhoomi/landreg/lib/msg"
	"github.com/bhoomi/landreg/lib/msg/amqp"
	"github.com/bhoomi/landreg/lib/store"
	"github.com/bhoomi/landreg/lib/store/db"
	"github.com/bhoomi/landreg/registry"
)

func main() {
	// get command line flags
	confPath := flag.String("c", "", "flag to get configuration from json file")
	monitor := flag.Bool("m", false, "flag to monitor the server with Prometheus at http://localhost:9100")
	flag.Parse()

	// extract configuration
	conf, err := config.ExtractConfiguration(*confPath)
	if err != nil {
		panic(err)
	}

	log.Printf("Configuration:%+v", conf)

	// connect to database
	var dbConn store.DB

	if conf.DbConn != "" {
		if dbConn, err = db.New(conf.DbType, conf.DbConn); err != nil {
			panic(err)
		}

		log.Printf("Connecting to database:%+v\n", conf.DbConn)
	}

	// connect to the authoritative ledger
	ld, err := ledger.Init(conf.Ledger)
	if err != nil {
		panic(err)
	}

	log.Print("Ledger client loaded")

	// connect to the document store
	var ds docstore.Store

	switch conf.Docstore.Type {
	case "ipfs":
		if ds, err = ipfs.New(conf.Docstore.Node); err != nil {
			panic(err)
		}
	default:
		ds = memstore.New()
	}

	// load Prometheus monitor
	if *monitor {
		go func() {
			log.Println("Serving metrics API")

			h := http.NewServeMux()

			h.Handle("/metrics", promhttp.Handler())
			http.ListenAndServe(":9100", h)
		}()
	}

	// load message broker
	var mb msg.MsgBroker

	switch conf.MbType {
	case "amqp":
		if mb, err = amqp.New(conf.MbConn); err != nil {
			time.Sleep(10 * time.Second) // wait 10s for AMQP to be ready and try to reconnect

			if mb, err = amqp.New(conf.MbConn); err != nil {
				panic(err)
			}
		}

		if err = mb.Setup(nil); err != nil {
			panic(err)
		}
	default:
		log.Printf("Unknown message broker type: %s\n", conf.MbType)
	}

	// proofs are anchored to every configured public chain
	nets := make([]string, 0, len(conf.Anchors))
	for _, a := range conf.Anchors {
		nets = append(nets, a.Name)
	}

	// create registry service
	rg := registry.New(conf.DbType, dbConn, ld, ds, mb, nets)

	// capture CTRL+C or docker's SIGTERM for gracious exit
	finish := make(chan int)

	go func() {
		sigchan := make(chan os.Signal, 10)
		signal.Notify(sigchan, os.Interrupt, syscall.SIGTERM)
		<-sigchan
		log.Println("Program killed !")
		// do last actions and wait for all write operations to end
		rg.StopRegistry()
		close(finish)
	}()

	// manage anchorer events
	if err := rg.ManageEvents(); err != nil {
		log.Printf("Error setting up broker readers for events:%e", err)
	}

	// init RESTful API, wait for its return and log response
	log.Printf("Registry: %s\n", rg.Init(conf.RestfulEndpoint, conf.Port, conf.SSLPort, conf.SSLCert, conf.SSLKey))

	<-finish
}
