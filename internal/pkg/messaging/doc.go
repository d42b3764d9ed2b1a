// Package messaging publishes and consumes events through a broker chosen at
// startup: NATS, NSQ, Kafka, Google Pub/Sub or an in-process memory bus.
//
// Use cases depend on Publisher or Consumer only, so switching the driver is
// a configuration change.
package messaging
