// Package preflight provides readiness checks for the filesystem paths and
// services kinetic depends on.
//
// These checks run in two contexts:
//   - The workflow manager calls RunAll once at startup and logs every
//     failure so a misconfigured install is visible before the first job.
//   - The API status endpoint and the CLI "kinetic status" and "kinetic deps"
//     commands surface the same results to operators.
package preflight
