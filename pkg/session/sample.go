package session

// SampleJSON is the document offered by "load sample".
const SampleJSON = `{
  "user": {
    "id": 1,
    "name": "Arvind Kumar",
    "email": "arvindkumar@gmail.com",
    "address": {
      "street": "silk institute",
      "city": "Bangalore",
      "zip": "560018"
    },
    "hobbies": [
      "reading",
      "cooking",
      "coding"
    ]
  }
}`
