package slack

// WithAPIURL is exported for testing against httptest servers
var WithAPIURL = withAPIURL
