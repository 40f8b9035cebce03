package cli

var PrintFeed = printFeed
