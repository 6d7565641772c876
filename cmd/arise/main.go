/*
Package main is the entry point for the arise CLI.

arise is a behavior analytics and pathfinding engine for adaptive
learning: it clusters students by how they interact with exercises,
recommends a study strategy per student, keeps an append-only history of
those recommendations and answers A* shortest-path queries.

Usage:
  arise [command]

Available Commands:
  serve       Run the HTTP server
  analyze     Cluster students and recommend study strategies
  history     Show a student's behavior snapshots
  path        Find the cheapest path over an undirected graph
  ask         Send one message through the command dispatcher
  ingest      Load interaction logs from a CSV file
  export      Export history, logs and marks as JSON
  marks       List recorded marks, highest first
  search      Search the latest snapshot of every student
  config      Manage the arise configuration file
  verify      Verify configuration and connections
  version     Show version information

Examples:
  # Load logs and analyze them
  arise ingest logs.csv
  arise analyze

  # Run the HTTP server
  arise serve --addr :5000
*/
package main

import "github.com/arise-learning/arise/internal/cli"

func main() {
	cli.Execute()
}
