// Package lexikon provides an embedded Go client for the lexikon
// hybrid-retrieval corpus backed by Redis.
//
// The client wires the retrieval stack in-process, so batch tools such
// as corpus loaders skip the HTTP surface entirely:
//
//	client, _ := lexikon.New(ctx, lexikon.WithRedis("localhost:6379", ""))
//	defer client.Close()
//
//	_ = client.EnsureIndex(ctx)
//	seg, _ := client.Segments().Ingest(ctx, lexikon.Segment{
//	    Language: "grc-cls", WorkRef: "Il.1.1", Text: "Μῆνιν ἄειδε θεὰ",
//	})
//	hits, _ := client.Search(ctx, lexikon.SearchRequest{
//	    Query: "Μηνιν", Language: "grc",
//	})
package lexikon
