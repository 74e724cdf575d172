// Package lib provides a Go SDK to generate websites from prompts programmatically.
//
// This package allows applications to generate websites, follow the
// generation lifecycle and manage the generation history without shelling
// out to the webgen CLI binary.
//
// # Quick Start
//
// Create a client and generate a website:
//
//	client, err := lib.New(ctx, lib.Config{})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer client.Close()
//
//	gen, err := client.Generate(ctx, "A landing page for a bakery", nil)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(gen.Artifact)
//
// # Lifecycle
//
// [Client.NewController] returns a [Controller] that exposes every state
// transition of a generation (idle, loading, success and error) so UIs can
// render the progress, cancel and retry:
//
//	ctrl, _ := client.NewController(lib.ControllerOpts{
//	    Listener: func(st lib.State) { fmt.Println(st.Kind, st.Phase) },
//	})
//	defer ctrl.Dispose()
//	ctrl.Submit(ctx, "A portfolio for a photographer")
//
// # Transports
//
//   - [TransportAPI]: The remote generation service (default).
//   - [TransportFake]: In-process fake generator for testing, no network needed.
//
// # Error Handling
//
// All methods return errors that can be inspected with [errors.Is]:
//
//   - [ErrNotFound]: Generation does not exist.
//   - [ErrNotValid]: Invalid input (e.g. an empty prompt).
//   - [ErrBusy]: A generation is already in flight on the controller.
//   - [ErrGenerationFailed]: The generation ended in error.
//
// # Thread Safety
//
// A [Client] and a [Controller] are safe for concurrent use from multiple goroutines.
package lib
