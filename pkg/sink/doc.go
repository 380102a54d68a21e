// Package sink opens the write destinations used by the logpool backends.
//
// A Transport owns one destination (a process stream, a rotating file or a
// kafka topic) and guarantees that it is closed at most once. Every emitter
// sharing a Transport can call Close; the first call performs the shutdown and
// all of them wait on the same completion signal, which is how logpool avoids
// double-closing asynchronous transports during shutdown.
//
// # Configuration
//
//	output: "/var/log/app.log"   # or stdout, stderr, discard, kafka
//	buffered: true
//	flush_interval: "5s"
//	max_size: 100
//	kafka_brokers: "broker-1:9092,broker-2:9092"
//	kafka_topic: "logs"
package sink
