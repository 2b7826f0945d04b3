// Package jobs holds the background processors of the files manager and the
// payload contract of each job type.
//
// Two job types exist:
//
//	thumbnail  {fileId, userId}  renders 500, 250 and 100 px previews of an image
//	welcome    {userId}          greets a newly registered user
//
// Schema returns the required fields per type for queue.WithSchema, so
// enqueueing an incomplete payload fails before anything is stored. The
// handlers check the same fields again and fail permanently when one is
// missing.
//
// Handlers must tolerate redelivery. Thumbnails overwrite "<path>_<width>";
// a redelivered welcome job sends the greeting again.
package jobs
