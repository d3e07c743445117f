// package models defines the data model for the weekly music sharing service
package models
