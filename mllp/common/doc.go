// Package common provides configuration structures and logging shared by the MLLP
// receiver, the sender and the command line.
//
// Key Components:
//
//   - ServerConfig: listener endpoint and socket options, the storage sink, the
//     receiver identity used in acknowledgments and the metrics endpoint.
//
//   - ClientConfig: peer endpoint, connect and response timeouts, retry count
//     and socket options of the sender.
//
//   - Logger: custom implementation of Dragonboat's logger.ILogger. Every package
//     obtains its logger with logger.GetLogger(name); InitLoggers installs the
//     factory and applies the configured level to all of them.
package common
