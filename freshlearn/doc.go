// Package freshlearn provides a client for the Freshlearn member integration API.
//
// The client covers member management and course enrollment. Every operation
// goes through a single dispatcher that adds authentication headers, encodes
// the request body, sends the request and folds the HTTP outcome into a
// uniform Response envelope.
//
// # Usage
//
//	client, err := freshlearn.NewClient(
//		"your-api-key",
//		freshlearn.WithLogger(logger),
//	)
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	resp, err := client.CreateMember(ctx, freshlearn.CreateMemberRequest{
//		Email:    "new@example.com",
//		FullName: "New User",
//		Source:   "api",
//	}, freshlearn.WithTimeout(10*time.Second))
//	if err != nil {
//		// transport failure, cancellation or timeout
//		log.Fatal(err)
//	}
//	if !resp.Success {
//		log.Printf("create failed: %s", resp.Error)
//	}
//
// # Error Handling
//
// HTTP failures are never returned as errors. A non-2xx status yields a
// Response with Success set to false, Error holding the server's "message"
// (or "Request failed with status N" when there is none) and Data/Body still
// holding whatever the server sent. Use Response.Err to convert a failed
// Response into an *APIError.
//
// The error return is reserved for calls that produced no HTTP response at
// all: network errors, a cancelled context or an elapsed per-call timeout.
package freshlearn
