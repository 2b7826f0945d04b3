// Package mongo opens connections to the MongoDB server that persists user
// accounts and file metadata.
//
// New applies the pool and retry settings from Config and pings the server
// before returning, retrying with a fixed interval. Healthcheck returns a
// probe used by the /status endpoint.
//
//	client, err := mongo.New(ctx, cfg)
//	if err != nil {
//	    return err
//	}
//	defer client.Disconnect(context.Background())
//	db := client.Database(cfg.Database)
package mongo
