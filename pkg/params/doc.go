/*
Package params implements notebook parameterization: rendering resolved
parameter values into the designated parameters cell, redacting sensitive
values, inferring the declared parameter names from an existing parameters
cell, and resolving path templates.

All functions operate on the domain model only; no I/O happens here.
*/
package params
