// Package metrics exposes the Prometheus counters that
// instrument the MSRP and SRTP data planes, mirroring the way the source
// repository wires github.com/prometheus/client_golang through its
// transaction and transport layers.
package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	// MsrpMessagesTotal counts MSRP SEND chunks by direction and outcome.
	MsrpMessagesTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "ng911",
		Subsystem: "msrp",
		Name:      "messages_total",
		Help:      "Total MSRP SEND chunks processed, labeled by direction and outcome.",
	}, []string{"direction", "outcome"})

	// MsrpReportsTotal counts REPORT requests sent and received.
	MsrpReportsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "ng911",
		Subsystem: "msrp",
		Name:      "reports_total",
		Help:      "Total MSRP REPORT requests, labeled by direction.",
	}, []string{"direction"})

	// MsrpTransmitRetries counts retry attempts by the transmit task.
	MsrpTransmitRetries = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "ng911",
		Subsystem: "msrp",
		Name:      "transmit_retries_total",
		Help:      "Total MSRP request retransmissions after a transmit timeout.",
	})

	// SrtpPacketsTotal counts SRTP/SRTCP packets processed by the transform.
	SrtpPacketsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "ng911",
		Subsystem: "srtp",
		Name:      "packets_total",
		Help:      "Total SRTP/SRTCP packets protected or unprotected, labeled by direction and outcome.",
	}, []string{"direction", "outcome"})

	// SrtpRolloverTotal counts ROC increments observed during sequence
	// number reconstruction.
	SrtpRolloverTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "ng911",
		Subsystem: "srtp",
		Name:      "rollover_total",
		Help:      "Total rollover counter increments during SRTP packet index reconstruction.",
	})
)

func init() {
	prometheus.MustRegister(
		MsrpMessagesTotal,
		MsrpReportsTotal,
		MsrpTransmitRetries,
		SrtpPacketsTotal,
		SrtpRolloverTotal,
	)
}
