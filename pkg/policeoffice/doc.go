// Package policeoffice reports application errors to a remote endpoint and
// falls back to a local JSON log when the endpoint cannot be reached.
//
// # Usage
//
// Build a client from a resolved configuration:
//
//	client, err := policeoffice.New(policeoffice.Config{
//	    API: policeoffice.APIConfig{URL: "https://collector.example/errors"},
//	})
//	if err != nil {
//	    return err
//	}
//
// Guard a unit of work. A failure is reported and swallowed unless
// WithRethrow is given:
//
//	user, err := policeoffice.TryCatch(ctx, client, func(ctx context.Context) (*User, error) {
//	    return store.FindUser(ctx, id)
//	}, map[string]any{"route": "/users/:id"})
//
// Work that is already running is guarded with Go and Await:
//
//	pending := policeoffice.Go(ctx, job.Run)
//	// ...
//	n, err := policeoffice.Await(ctx, client, pending, nil)
//
// Report an error directly:
//
//	res, err := client.Catch(ctx, policeoffice.ErrorProperties{Name: "Timeout", Message: "upstream slow"})
//
// When the remote attempt fails (no URL configured, transport error, non-2xx
// status, or a body with "status": "error") one LogEntry is appended to
// <folder_path>/<folder_name>/<file_name>.json. Only a failure of that write
// is returned as an error.
package policeoffice
