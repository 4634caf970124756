// Package version is the capability oracle: it knows which server version
// the client is talking to and which wire features that version supports.
//
// A Version is fetched once per connection and cached in an Oracle. Every
// compilation takes a Snapshot and asks it questions:
//
//	snap, err := oracle.Snapshot(ctx)
//	if err != nil {
//	    return err
//	}
//	if err := snap.Require(version.MultiTargetVectorSearch); err != nil {
//	    return err // *errs.UnsupportedFeatureError, mentions "1.26.0"
//	}
//
// Checks never fail on their own; whether an unsupported feature is fatal
// is the caller's decision. Refresh is explicit and safe to call
// concurrently.
package version
