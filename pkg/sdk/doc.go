// Package recordindex provides an embedded Go client for the OIP record
// index. It wires the retrieval engine directly against a Redis instance
// with the search module loaded, without going through the HTTP API.
//
// Reading:
//
//	client, _ := recordindex.New(ctx, recordindex.WithRedis("localhost:6379", ""))
//	defer client.Close()
//
//	page, _ := client.Records().Query(ctx, recordindex.Query{
//	    RecordType: "workout",
//	    Page:       1,
//	    PageSize:   20,
//	}, recordindex.Viewer{})
//
// Writing (ingestion side):
//
//	_ = client.Records().Index(ctx, recordindex.Record{
//	    Did:        "did:arweave:abc",
//	    RecordType: "workout",
//	    Name:       "leg day",
//	})
//
// Visibility is decided per call through the Viewer argument: the zero
// Viewer is anonymous and sees public records only.
package recordindex
