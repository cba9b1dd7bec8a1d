// Package lib holds the clients of the third-party REST APIs the dashboard
// reads from.
//
// upstream is the shared GET-and-decode wrapper that classifies failures;
// github, newsapi and weatherapi build on it and remap each API's payload
// into the dashboard's model types.
package lib
