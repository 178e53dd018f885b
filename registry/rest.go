package registry

import (
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/gorilla/mux"
)

const timeout = 15

// Init sets up and starts the http/https server to service the RESTful API for a registry service. If sslPort,
// sslCert and sslKey are informed, it will start an https (TLS) server on the specified endpoint.
func (rg *Registry) Init(endpoint, port, sslPort, sslCert, sslKey string) string {
	var err, errTLS error

	// API definition
	r := mux.NewRouter()
	r.HandleFunc("/", rg.homeHandler)
	r.HandleFunc("/parcels", rg.createParcelHandler).Methods("POST")                    // register a parcel
	r.HandleFunc("/parcels/{ulpin}", rg.getParcelHandler).Methods("GET")               // get a parcel record
	r.HandleFunc("/parcels/{ulpin}/status", rg.parcelStatusHandler).Methods("PUT")     // update parcel status
	r.HandleFunc("/parcels/{ulpin}/units", rg.unitsByParcelHandler).Methods("GET")     // get units of a parcel
	r.HandleFunc("/units", rg.createUnitHandler).Methods("POST")                       // register a unit
	r.HandleFunc("/units/{unit}", rg.getUnitHandler).Methods("GET")                    // get a unit record
	r.HandleFunc("/units/{unit}/status", rg.unitStatusHandler).Methods("PUT")          // update unit status
	r.HandleFunc("/transfers", rg.initiateTransferHandler).Methods("POST")             // open a transfer request
	r.HandleFunc("/transfers/{request}", rg.getTransferHandler).Methods("GET")         // get a transfer request
	r.HandleFunc("/transfers/{request}/approve", rg.approveHandler).Methods("POST")    // approve a transfer
	r.HandleFunc("/transfers/{request}/reject", rg.rejectHandler).Methods("POST")      // reject a transfer
	r.HandleFunc("/disputes", rg.raiseDisputeHandler).Methods("POST")                  // raise a dispute
	r.HandleFunc("/disputes/{dispute}", rg.getDisputeHandler).Methods("GET")           // get a dispute record
	r.HandleFunc("/disputes/{dispute}/resolve", rg.resolveHandler).Methods("POST")     // resolve a dispute
	r.HandleFunc("/encumbrances", rg.addEncumbranceHandler).Methods("POST")            // register an encumbrance
	r.HandleFunc("/encumbrances/{enc}", rg.getEncumbranceHandler).Methods("GET")       // get an encumbrance
	r.HandleFunc("/encumbrances/{enc}/release", rg.releaseHandler).Methods("POST")     // release an encumbrance
	r.HandleFunc("/anchors/{asset}", rg.anchorsHandler).Methods("GET")                 // get anchor history
	http.Handle("/", r)

	// setup shutdown channel
	rg.sc = make(chan struct{})

	// start http server
	if port != "" {
		rg.s = &http.Server{
			Handler: r,
			Addr:    endpoint + ":" + port,
			// Good practice: enforce timeouts for servers you create!
			WriteTimeout: timeout * time.Second,
			ReadTimeout:  timeout * time.Second,
		}

		go func() {
			err = rg.s.ListenAndServe()
		}()

		log.Printf("Listening to API http requests on %s:%s", endpoint, port)
	}
	// start https server
	if sslPort != "" && sslCert != "" && sslKey != "" {
		rg.ss = &http.Server{
			Handler: r,
			Addr:    endpoint + ":" + sslPort,
			// Good practice: enforce timeouts for servers you create!
			WriteTimeout: timeout * time.Second,
			ReadTimeout:  timeout * time.Second,
		}

		go func() {
			errTLS = rg.ss.ListenAndServeTLS(sslCert, sslKey)
		}()

		log.Printf("Listening to API https requests on %s:%s", endpoint, sslPort)
	}
	// wait for servers to be shutdown
	<-rg.sc

	return fmt.Sprintf("shutdown http server:%e, https server:%e", err, errTLS)
}
