// Package docs holds the swagger document built from the handler annotations.
// Regenerate it with: swag init -g cmd/api/main.go --parseInternal
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "contact": {},
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/admin/companies/{id}/verify": {
            "put": {
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "description": "Toggles the verified flag of the company profile",
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "admin"
                ],
                "summary": "Verify, or unverify a company",
                "parameters": [
                    {
                        "type": "string",
                        "description": "Company profile ID",
                        "name": "id",
                        "in": "path",
                        "required": true
                    }
                ],
                "responses": {
                    "200": {
                        "description": "Company verified or unverified",
                        "schema": {
                            "$ref": "#/definitions/utilities.Response"
                        }
                    },
                    "401": {
                        "description": "Invalid token",
                        "schema": {
                            "$ref": "#/definitions/utilities.Response"
                        }
                    },
                    "403": {
                        "description": "Not logged in as admin",
                        "schema": {
                            "$ref": "#/definitions/utilities.Response"
                        }
                    },
                    "404": {
                        "description": "Company not found",
                        "schema": {
                            "$ref": "#/definitions/utilities.Response"
                        }
                    }
                }
            }
        },
        "/admin/stats": {
            "get": {
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "admin"
                ],
                "summary": "Platform statistics",
                "responses": {
                    "200": {
                        "description": "Counts of users, jobs and applications",
                        "schema": {
                            "allOf": [
                                {
                                    "$ref": "#/definitions/utilities.Response"
                                },
                                {
                                    "type": "object",
                                    "properties": {
                                        "data": {
                                            "$ref": "#/definitions/admin.Stats"
                                        }
                                    }
                                }
                            ]
                        }
                    },
                    "401": {
                        "description": "Invalid token",
                        "schema": {
                            "$ref": "#/definitions/utilities.Response"
                        }
                    },
                    "403": {
                        "description": "Not logged in as admin",
                        "schema": {
                            "$ref": "#/definitions/utilities.Response"
                        }
                    }
                }
            }
        },
        "/admin/users": {
            "get": {
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "admin"
                ],
                "summary": "List every account",
                "responses": {
                    "200": {
                        "description": "Accounts with count",
                        "schema": {
                            "$ref": "#/definitions/utilities.Response"
                        }
                    },
                    "401": {
                        "description": "Invalid token",
                        "schema": {
                            "$ref": "#/definitions/utilities.Response"
                        }
                    },
                    "403": {
                        "description": "Not logged in as admin",
                        "schema": {
                            "$ref": "#/definitions/utilities.Response"
                        }
                    }
                }
            }
        },
        "/admin/users/{id}": {
            "delete": {
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "description": "Removes the account and its student or company profile",
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "admin"
                ],
                "summary": "Delete an account",
                "parameters": [
                    {
                        "type": "string",
                        "description": "Account ID",
                        "name": "id",
                        "in": "path",
                        "required": true
                    }
                ],
                "responses": {
                    "200": {
                        "description": "User deleted",
                        "schema": {
                            "$ref": "#/definitions/utilities.Response"
                        }
                    },
                    "400": {
                        "description": "Cannot delete yourself",
                        "schema": {
                            "$ref": "#/definitions/utilities.Response"
                        }
                    },
                    "401": {
                        "description": "Invalid token",
                        "schema": {
                            "$ref": "#/definitions/utilities.Response"
                        }
                    },
                    "403": {
                        "description": "Not logged in as admin",
                        "schema": {
                            "$ref": "#/definitions/utilities.Response"
                        }
                    },
                    "404": {
                        "description": "User not found",
                        "schema": {
                            "$ref": "#/definitions/utilities.Response"
                        }
                    }
                }
            }
        },
        "/applications/apply/{jobId}": {
            "post": {
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "applications"
                ],
                "summary": "Apply to a job",
                "parameters": [
                    {
                        "type": "string",
                        "description": "Job ID",
                        "name": "jobId",
                        "in": "path",
                        "required": true
                    }
                ],
                "responses": {
                    "201": {
                        "description": "Application submitted",
                        "schema": {
                            "$ref": "#/definitions/utilities.Response"
                        }
                    },
                    "400": {
                        "description": "Job closed or already applied",
                        "schema": {
                            "$ref": "#/definitions/utilities.Response"
                        }
                    },
                    "401": {
                        "description": "Invalid token",
                        "schema": {
                            "$ref": "#/definitions/utilities.Response"
                        }
                    },
                    "403": {
                        "description": "Not logged in as student",
                        "schema": {
                            "$ref": "#/definitions/utilities.Response"
                        }
                    },
                    "404": {
                        "description": "Job or profile not found",
                        "schema": {
                            "$ref": "#/definitions/utilities.Response"
                        }
                    }
                }
            }
        },
        "/applications/job/{jobId}": {
            "get": {
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "description": "Only the company that owns the job can see its applicants",
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "applications"
                ],
                "summary": "List the applicants of a job",
                "parameters": [
                    {
                        "type": "string",
                        "description": "Job ID",
                        "name": "jobId",
                        "in": "path",
                        "required": true
                    }
                ],
                "responses": {
                    "200": {
                        "description": "Applications with count",
                        "schema": {
                            "$ref": "#/definitions/utilities.Response"
                        }
                    },
                    "401": {
                        "description": "Invalid token",
                        "schema": {
                            "$ref": "#/definitions/utilities.Response"
                        }
                    },
                    "403": {
                        "description": "Not the owner",
                        "schema": {
                            "$ref": "#/definitions/utilities.Response"
                        }
                    },
                    "404": {
                        "description": "Job not found",
                        "schema": {
                            "$ref": "#/definitions/utilities.Response"
                        }
                    }
                }
            }
        },
        "/applications/my-applications": {
            "get": {
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "applications"
                ],
                "summary": "List the applications of the logged in student",
                "responses": {
                    "200": {
                        "description": "Applications with count",
                        "schema": {
                            "$ref": "#/definitions/utilities.Response"
                        }
                    },
                    "401": {
                        "description": "Invalid token",
                        "schema": {
                            "$ref": "#/definitions/utilities.Response"
                        }
                    },
                    "403": {
                        "description": "Not logged in as student",
                        "schema": {
                            "$ref": "#/definitions/utilities.Response"
                        }
                    },
                    "404": {
                        "description": "Profile not found",
                        "schema": {
                            "$ref": "#/definitions/utilities.Response"
                        }
                    }
                }
            }
        },
        "/applications/{id}/status": {
            "put": {
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "description": "Any status can follow any other",
                "consumes": [
                    "application/json"
                ],
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "applications"
                ],
                "summary": "Change the status of an application",
                "parameters": [
                    {
                        "type": "string",
                        "description": "Application ID",
                        "name": "id",
                        "in": "path",
                        "required": true
                    },
                    {
                        "description": "New status",
                        "name": "status",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/application.statusInput"
                        }
                    }
                ],
                "responses": {
                    "200": {
                        "description": "Status updated",
                        "schema": {
                            "$ref": "#/definitions/utilities.Response"
                        }
                    },
                    "400": {
                        "description": "Invalid status",
                        "schema": {
                            "$ref": "#/definitions/utilities.Response"
                        }
                    },
                    "401": {
                        "description": "Invalid token",
                        "schema": {
                            "$ref": "#/definitions/utilities.Response"
                        }
                    },
                    "403": {
                        "description": "Not the owner",
                        "schema": {
                            "$ref": "#/definitions/utilities.Response"
                        }
                    },
                    "404": {
                        "description": "Application not found",
                        "schema": {
                            "$ref": "#/definitions/utilities.Response"
                        }
                    }
                }
            }
        },
        "/auth/login": {
            "post": {
                "consumes": [
                    "application/json"
                ],
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "auth"
                ],
                "summary": "Log in",
                "parameters": [
                    {
                        "description": "Credentials",
                        "name": "body",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/auth.LoginInfo"
                        }
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/utilities.Response"
                        }
                    },
                    "400": {
                        "description": "Bad Request",
                        "schema": {
                            "$ref": "#/definitions/utilities.Response"
                        }
                    },
                    "401": {
                        "description": "Unauthorized",
                        "schema": {
                            "$ref": "#/definitions/utilities.Response"
                        }
                    }
                }
            }
        },
        "/auth/logout": {
            "post": {
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "description": "Blacklists the bearer token until it expires",
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "auth"
                ],
                "summary": "Revoke the current token",
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/utilities.Response"
                        }
                    },
                    "401": {
                        "description": "Unauthorized",
                        "schema": {
                            "$ref": "#/definitions/utilities.Response"
                        }
                    }
                }
            }
        },
        "/auth/me": {
            "get": {
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "auth"
                ],
                "summary": "Current account",
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/utilities.Response"
                        }
                    },
                    "401": {
                        "description": "Unauthorized",
                        "schema": {
                            "$ref": "#/definitions/utilities.Response"
                        }
                    }
                }
            }
        },
        "/auth/register": {
            "post": {
                "description": "Creates the account and its student or company profile and returns a token",
                "consumes": [
                    "application/json"
                ],
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "auth"
                ],
                "summary": "Register an account",
                "parameters": [
                    {
                        "description": "Registration data",
                        "name": "body",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/auth.RegisterInfo"
                        }
                    }
                ],
                "responses": {
                    "201": {
                        "description": "Created",
                        "schema": {
                            "$ref": "#/definitions/utilities.Response"
                        }
                    },
                    "400": {
                        "description": "Bad Request",
                        "schema": {
                            "$ref": "#/definitions/utilities.Response"
                        }
                    }
                }
            }
        },
        "/companies/logo": {
            "post": {
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "description": "Only JPEG and PNG images up to 5 MB are accepted",
                "consumes": [
                    "multipart/form-data"
                ],
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "companies"
                ],
                "summary": "Upload company logo",
                "parameters": [
                    {
                        "type": "file",
                        "description": "Logo image",
                        "name": "logo",
                        "in": "formData",
                        "required": true
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/utilities.Response"
                        }
                    },
                    "400": {
                        "description": "Bad Request",
                        "schema": {
                            "$ref": "#/definitions/utilities.Response"
                        }
                    },
                    "401": {
                        "description": "Unauthorized",
                        "schema": {
                            "$ref": "#/definitions/utilities.Response"
                        }
                    },
                    "403": {
                        "description": "Forbidden",
                        "schema": {
                            "$ref": "#/definitions/utilities.Response"
                        }
                    },
                    "500": {
                        "description": "Internal Server Error",
                        "schema": {
                            "$ref": "#/definitions/utilities.Response"
                        }
                    }
                }
            }
        },
        "/companies/me": {
            "get": {
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "companies"
                ],
                "summary": "Retrieve the company profile of the logged in account",
                "responses": {
                    "200": {
                        "description": "Profile with account fields",
                        "schema": {
                            "$ref": "#/definitions/utilities.Response"
                        }
                    },
                    "401": {
                        "description": "Invalid token",
                        "schema": {
                            "$ref": "#/definitions/utilities.Response"
                        }
                    },
                    "403": {
                        "description": "Not logged in as company",
                        "schema": {
                            "$ref": "#/definitions/utilities.Response"
                        }
                    },
                    "404": {
                        "description": "Profile not found",
                        "schema": {
                            "$ref": "#/definitions/utilities.Response"
                        }
                    }
                }
            },
            "put": {
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "description": "Only industry, size, website and description can be changed.\nVerified status and logo can't be overwritten.",
                "consumes": [
                    "application/json"
                ],
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "companies"
                ],
                "summary": "Edit company profile",
                "parameters": [
                    {
                        "description": "Fields to change",
                        "name": "company_profile",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/model.EditableCompanyInfo"
                        }
                    }
                ],
                "responses": {
                    "200": {
                        "description": "Updated profile",
                        "schema": {
                            "$ref": "#/definitions/utilities.Response"
                        }
                    },
                    "400": {
                        "description": "Invalid field value",
                        "schema": {
                            "$ref": "#/definitions/utilities.Response"
                        }
                    },
                    "401": {
                        "description": "Invalid token",
                        "schema": {
                            "$ref": "#/definitions/utilities.Response"
                        }
                    },
                    "403": {
                        "description": "Not logged in as company",
                        "schema": {
                            "$ref": "#/definitions/utilities.Response"
                        }
                    },
                    "404": {
                        "description": "Profile not found",
                        "schema": {
                            "$ref": "#/definitions/utilities.Response"
                        }
                    }
                }
            }
        },
        "/files/{id}": {
            "get": {
                "description": "Serves media kept in the database storage backend",
                "produces": [
                    "application/octet-stream"
                ],
                "tags": [
                    "files"
                ],
                "summary": "Download a stored file",
                "parameters": [
                    {
                        "type": "string",
                        "description": "File ID",
                        "name": "id",
                        "in": "path",
                        "required": true
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "type": "file"
                        }
                    },
                    "404": {
                        "description": "Not Found",
                        "schema": {
                            "$ref": "#/definitions/utilities.Response"
                        }
                    }
                }
            }
        },
        "/jobs": {
            "get": {
                "description": "Newest first. Every query is optional.",
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "jobs"
                ],
                "summary": "List open jobs",
                "parameters": [
                    {
                        "type": "string",
                        "description": "Case insensitive substring of the title",
                        "name": "search",
                        "in": "query"
                    },
                    {
                        "enum": [
                            "Full-time",
                            "Internship",
                            "Contract"
                        ],
                        "type": "string",
                        "description": "Exact job type",
                        "name": "type",
                        "in": "query"
                    },
                    {
                        "type": "string",
                        "description": "Case insensitive substring of the location",
                        "name": "location",
                        "in": "query"
                    }
                ],
                "responses": {
                    "200": {
                        "description": "Open jobs with count",
                        "schema": {
                            "$ref": "#/definitions/utilities.Response"
                        }
                    },
                    "500": {
                        "description": "Database error",
                        "schema": {
                            "$ref": "#/definitions/utilities.Response"
                        }
                    }
                }
            },
            "post": {
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "description": "Title, description, requirements, location, salary and deadline are required",
                "consumes": [
                    "application/json"
                ],
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "jobs"
                ],
                "summary": "Create a job post",
                "parameters": [
                    {
                        "description": "Job information",
                        "name": "job",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/jobpost.JobInput"
                        }
                    }
                ],
                "responses": {
                    "201": {
                        "description": "Job posted",
                        "schema": {
                            "$ref": "#/definitions/utilities.Response"
                        }
                    },
                    "400": {
                        "description": "Invalid job",
                        "schema": {
                            "$ref": "#/definitions/utilities.Response"
                        }
                    },
                    "401": {
                        "description": "Invalid token",
                        "schema": {
                            "$ref": "#/definitions/utilities.Response"
                        }
                    },
                    "403": {
                        "description": "Not logged in as company",
                        "schema": {
                            "$ref": "#/definitions/utilities.Response"
                        }
                    },
                    "404": {
                        "description": "Company profile missing",
                        "schema": {
                            "$ref": "#/definitions/utilities.Response"
                        }
                    }
                }
            }
        },
        "/jobs/my-jobs": {
            "get": {
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "jobs"
                ],
                "summary": "List the jobs of the logged in company",
                "responses": {
                    "200": {
                        "description": "Jobs with count",
                        "schema": {
                            "$ref": "#/definitions/utilities.Response"
                        }
                    },
                    "401": {
                        "description": "Invalid token",
                        "schema": {
                            "$ref": "#/definitions/utilities.Response"
                        }
                    },
                    "403": {
                        "description": "Not logged in as company",
                        "schema": {
                            "$ref": "#/definitions/utilities.Response"
                        }
                    },
                    "404": {
                        "description": "Company profile missing",
                        "schema": {
                            "$ref": "#/definitions/utilities.Response"
                        }
                    }
                }
            }
        },
        "/jobs/{id}": {
            "get": {
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "jobs"
                ],
                "summary": "Get job by ID",
                "parameters": [
                    {
                        "type": "string",
                        "description": "Job ID",
                        "name": "id",
                        "in": "path",
                        "required": true
                    }
                ],
                "responses": {
                    "200": {
                        "description": "The job with its company",
                        "schema": {
                            "$ref": "#/definitions/utilities.Response"
                        }
                    },
                    "404": {
                        "description": "Job not found",
                        "schema": {
                            "$ref": "#/definitions/utilities.Response"
                        }
                    }
                }
            },
            "put": {
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "description": "Only the company that owns the job can edit it. Empty fields are ignored.",
                "consumes": [
                    "application/json"
                ],
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "jobs"
                ],
                "summary": "Edit a job post",
                "parameters": [
                    {
                        "type": "string",
                        "description": "Job ID",
                        "name": "id",
                        "in": "path",
                        "required": true
                    },
                    {
                        "description": "Fields to change",
                        "name": "job",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/jobpost.JobInput"
                        }
                    }
                ],
                "responses": {
                    "200": {
                        "description": "Job updated",
                        "schema": {
                            "$ref": "#/definitions/utilities.Response"
                        }
                    },
                    "400": {
                        "description": "Invalid job",
                        "schema": {
                            "$ref": "#/definitions/utilities.Response"
                        }
                    },
                    "401": {
                        "description": "Invalid token",
                        "schema": {
                            "$ref": "#/definitions/utilities.Response"
                        }
                    },
                    "403": {
                        "description": "Not the owner",
                        "schema": {
                            "$ref": "#/definitions/utilities.Response"
                        }
                    },
                    "404": {
                        "description": "Job not found",
                        "schema": {
                            "$ref": "#/definitions/utilities.Response"
                        }
                    }
                }
            },
            "delete": {
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "description": "Only the company that owns the job can delete it. Its applications are removed too.",
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "jobs"
                ],
                "summary": "Delete a job post",
                "parameters": [
                    {
                        "type": "string",
                        "description": "Job ID",
                        "name": "id",
                        "in": "path",
                        "required": true
                    }
                ],
                "responses": {
                    "200": {
                        "description": "Job deleted",
                        "schema": {
                            "$ref": "#/definitions/utilities.Response"
                        }
                    },
                    "401": {
                        "description": "Invalid token",
                        "schema": {
                            "$ref": "#/definitions/utilities.Response"
                        }
                    },
                    "403": {
                        "description": "Not the owner",
                        "schema": {
                            "$ref": "#/definitions/utilities.Response"
                        }
                    },
                    "404": {
                        "description": "Job not found",
                        "schema": {
                            "$ref": "#/definitions/utilities.Response"
                        }
                    }
                }
            }
        },
        "/students/me": {
            "get": {
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "students"
                ],
                "summary": "Retrieve the student profile of the logged in account",
                "responses": {
                    "200": {
                        "description": "Profile with account fields",
                        "schema": {
                            "$ref": "#/definitions/utilities.Response"
                        }
                    },
                    "401": {
                        "description": "Invalid token",
                        "schema": {
                            "$ref": "#/definitions/utilities.Response"
                        }
                    },
                    "403": {
                        "description": "Not logged in as student",
                        "schema": {
                            "$ref": "#/definitions/utilities.Response"
                        }
                    },
                    "404": {
                        "description": "Profile not found",
                        "schema": {
                            "$ref": "#/definitions/utilities.Response"
                        }
                    }
                }
            },
            "put": {
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "description": "Only college, branch, cgpa, graduationYear, skills and phone can be changed.\nEmpty values are ignored.",
                "consumes": [
                    "application/json"
                ],
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "students"
                ],
                "summary": "Edit student profile",
                "parameters": [
                    {
                        "description": "Fields to change",
                        "name": "student_profile",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/student.editStudentInfo"
                        }
                    }
                ],
                "responses": {
                    "200": {
                        "description": "Updated profile",
                        "schema": {
                            "$ref": "#/definitions/utilities.Response"
                        }
                    },
                    "400": {
                        "description": "Invalid field value",
                        "schema": {
                            "$ref": "#/definitions/utilities.Response"
                        }
                    },
                    "401": {
                        "description": "Invalid token",
                        "schema": {
                            "$ref": "#/definitions/utilities.Response"
                        }
                    },
                    "403": {
                        "description": "Not logged in as student",
                        "schema": {
                            "$ref": "#/definitions/utilities.Response"
                        }
                    },
                    "404": {
                        "description": "Profile not found",
                        "schema": {
                            "$ref": "#/definitions/utilities.Response"
                        }
                    }
                }
            }
        },
        "/students/resume": {
            "post": {
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "description": "Only PDF files up to 5 MB are accepted",
                "consumes": [
                    "multipart/form-data"
                ],
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "students"
                ],
                "summary": "Upload resume",
                "parameters": [
                    {
                        "type": "file",
                        "description": "Resume file",
                        "name": "resume",
                        "in": "formData",
                        "required": true
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/utilities.Response"
                        }
                    },
                    "400": {
                        "description": "Bad Request",
                        "schema": {
                            "$ref": "#/definitions/utilities.Response"
                        }
                    },
                    "401": {
                        "description": "Unauthorized",
                        "schema": {
                            "$ref": "#/definitions/utilities.Response"
                        }
                    },
                    "403": {
                        "description": "Forbidden",
                        "schema": {
                            "$ref": "#/definitions/utilities.Response"
                        }
                    },
                    "500": {
                        "description": "Internal Server Error",
                        "schema": {
                            "$ref": "#/definitions/utilities.Response"
                        }
                    }
                }
            }
        }
    },
    "definitions": {
        "admin.JobStats": {
            "type": "object",
            "properties": {
                "active": {
                    "type": "integer"
                },
                "total": {
                    "type": "integer"
                }
            }
        },
        "admin.Stats": {
            "type": "object",
            "properties": {
                "applications": {
                    "type": "integer"
                },
                "jobs": {
                    "$ref": "#/definitions/admin.JobStats"
                },
                "users": {
                    "$ref": "#/definitions/admin.UserStats"
                }
            }
        },
        "admin.UserStats": {
            "type": "object",
            "properties": {
                "admins": {
                    "type": "integer"
                },
                "companies": {
                    "type": "integer"
                },
                "students": {
                    "type": "integer"
                },
                "total": {
                    "type": "integer"
                }
            }
        },
        "application.statusInput": {
            "type": "object",
            "properties": {
                "status": {
                    "type": "string",
                    "example": "Shortlisted"
                }
            }
        },
        "auth.LoginInfo": {
            "type": "object",
            "required": [
                "email",
                "password"
            ],
            "properties": {
                "email": {
                    "type": "string"
                },
                "password": {
                    "type": "string"
                }
            }
        },
        "auth.RegisterInfo": {
            "type": "object",
            "required": [
                "email",
                "name",
                "password"
            ],
            "properties": {
                "branch": {
                    "type": "string"
                },
                "cgpa": {
                    "type": "number"
                },
                "college": {
                    "type": "string"
                },
                "description": {
                    "type": "string"
                },
                "email": {
                    "type": "string"
                },
                "graduationYear": {
                    "type": "integer"
                },
                "industry": {
                    "type": "string"
                },
                "name": {
                    "type": "string",
                    "maxLength": 50
                },
                "password": {
                    "type": "string",
                    "minLength": 6
                },
                "phone": {
                    "type": "string"
                },
                "role": {
                    "type": "string",
                    "enum": [
                        "student",
                        "company",
                        "admin"
                    ]
                },
                "size": {
                    "type": "string"
                },
                "skills": {
                    "type": "array",
                    "items": {
                        "type": "string"
                    }
                },
                "website": {
                    "type": "string"
                }
            }
        },
        "jobpost.JobInput": {
            "type": "object",
            "properties": {
                "deadline": {
                    "type": "string",
                    "example": "2026-12-31"
                },
                "description": {
                    "type": "string"
                },
                "location": {
                    "type": "string"
                },
                "requirements": {
                    "type": "string"
                },
                "salary": {
                    "type": "string"
                },
                "status": {
                    "type": "string"
                },
                "title": {
                    "type": "string"
                },
                "type": {
                    "type": "string"
                }
            }
        },
        "model.EditableCompanyInfo": {
            "type": "object",
            "properties": {
                "description": {
                    "type": "string"
                },
                "industry": {
                    "type": "string"
                },
                "size": {
                    "type": "string"
                },
                "website": {
                    "type": "string"
                }
            }
        },
        "student.editStudentInfo": {
            "type": "object",
            "properties": {
                "branch": {
                    "type": "string"
                },
                "cgpa": {
                    "type": "number"
                },
                "college": {
                    "type": "string"
                },
                "graduationYear": {
                    "type": "integer"
                },
                "phone": {
                    "type": "string"
                },
                "skills": {
                    "type": "array",
                    "items": {
                        "type": "string"
                    }
                }
            }
        },
        "utilities.Response": {
            "type": "object",
            "properties": {
                "count": {
                    "type": "integer"
                },
                "data": {},
                "message": {
                    "type": "string"
                },
                "success": {
                    "type": "boolean"
                },
                "token": {
                    "type": "string"
                }
            }
        }
    },
    "securityDefinitions": {
        "BearerAuth": {
            "description": "Type \"Bearer\" followed by a space and the access token.",
            "type": "apiKey",
            "name": "Authorization",
            "in": "header"
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/api",
	Schemes:          []string{},
	Title:            "Campus Recruitment Portal API",
	Description:      "Students apply to jobs posted by companies; admins moderate the platform.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
