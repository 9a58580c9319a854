/*
Package castsdk is a Go client for the CAS tracker API.

# Overview

A Client talks to one server. Public operations (signup, login, password
recovery, health) work on a bare Client; everything else needs a credential,
which WithToken attaches:

	c := castsdk.NewClient("https://cas.example.org")

	login, err := c.Login(ctx, email, password)
	if err != nil {
		return err
	}
	student := c.WithToken(login.Token)

	projects, err := student.MyProjects(ctx)

# Errors

Every non-2xx response becomes an *APIError carrying the HTTP status and the
server's error code, message and details:

	_, err := c.Login(ctx, email, "wrong")
	var apiErr *castsdk.APIError
	if errors.As(err, &apiErr) && apiErr.Code == "invalid_credentials" {
		// ...
	}

# Uploads

SubmitProject and ResubmitProject send a multipart body with the project
JSON in the "data" part and one "evidence" part per File.
*/
package castsdk
