// Package logging builds reel's zerolog logger.
//
// Output is one JSON object per line with time, level, component, message
// and error fields, which is the shape the logtail package expects when it
// renders the Logs view. There is no global logger. Open returns a root
// logger and each package receives a child from With.
//
//	logger, closer, err := logging.Open(logging.Config{File: cfg.LogFile, Level: cfg.LogLevel})
//	defer closer.Close()
//	client := movieverse.NewClient(movieverse.Options{Logger: logging.With(logger, "movieverse")})
package logging
