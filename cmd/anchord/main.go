// package main: anchorer service
package main

import (
	"encoding/hex"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/tarancss/hd"

	"github.com/bhoomi/landreg/anchorer"
	"github.com/bhoomi/landreg/lib/anchor"
	"github.com/bhoomi/landreg/lib/config"
	"github.com/bhoomi/landreg/lib/msg"
	"github.com/bhoomi/landreg/lib/msg/amqp"
	"github.com/bhoomi/landreg/lib/store"
	"github.com/bhoomi/landreg/lib/store/db"
)

func main() {
	// get command line flags
	confPath := flag.String("c", "", "flag to get configuration from json file")
	monitor := flag.Bool("m", false, "flag to monitor the server with Prometheus at http://localhost:9100")
	flag.Parse()

	// extract configuration
	var err error

	var conf config.ServiceConfig
	if conf, err = config.ExtractConfiguration(*confPath); err != nil {
		panic(err)
	}

	log.Printf("Configuration:%+v", conf)

	// connect to database
	var dbConn store.DB
	if conf.DbConn != "" {
		log.Printf("Connecting to database:%+v\n", conf.DbConn)

		if dbConn, err = db.New(conf.DbType, conf.DbConn); err != nil {
			panic(err)
		}
	}

	// load HD wallet for the anchoring accounts
	seed, err := hex.DecodeString(conf.Seed)
	if err != nil {
		panic(err)
	}

	hdw, err := hd.Init(seed)
	if err != nil {
		panic(err)
	}

	// load all anchor chains
	var chains map[string]anchor.Chain
	if chains, err = anchor.Init(conf.Anchors, hdw); err != nil {
		panic(err)
	}

	defer anchor.End(chains)
	log.Print("Anchor chain clients loaded")

	// load Prometheus monitor
	met := anchorer.NewMetrics()

	if *monitor {
		met.Register(prometheus.DefaultRegisterer)

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

		defer func() {
			err := mb.Close()
			log.Printf("Closing messageBroker: %e", err)
		}()
	default:
		log.Printf("Unknown message broker type: %s\n", conf.MbType)
	}

	// create anchorer service
	a := anchorer.New(conf.DbType, dbConn, mb, chains, conf.Anchors, met)

	// capture CTRL+C or docker's SIGTERM for gracious exit
	go func() {
		sigchan := make(chan os.Signal, 10)
		signal.Notify(sigchan, os.Interrupt, syscall.SIGTERM)
		<-sigchan
		log.Println("Program killed !")
		// do last actions and wait for all write operations to end
		a.StopAnchorer()
	}()

	// launch anchorer (for each chain) creating a waiting channel for each
	log.Printf("Anchor: %s\n", <-a.Anchor())

	// close database
	if dbConn != nil {
		err = db.Close(conf.DbType, dbConn)
		log.Printf("Disconnecting %v database, err:%e\n", conf.DbType, err)
	}
}
